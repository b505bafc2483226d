// Package credentials abstracts where platform login credentials come from.
// The pipeline only depends on the Provider interface, so the GUI keyring,
// an env file or a test fake can all back it.
package credentials

import (
	"fmt"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// Credentials is one platform's login pair.
type Credentials struct {
	Username string
	Password string
}

// Provider supplies credentials per platform name. The second return value
// is false when no credentials are available; the orchestrator fails the
// affected job without aborting the run.
type Provider interface {
	Get(platform string) (Credentials, bool)
}

// Static is a fixed in-memory provider, used by tests and for credentials
// carried in the config file.
type Static map[string]Credentials

func (s Static) Get(platform string) (Credentials, bool) {
	c, ok := s[platform]
	return c, ok
}

// EnvProvider reads credentials from process environment variables of the
// form P2PFLOW_<PLATFORM>_USERNAME / P2PFLOW_<PLATFORM>_PASSWORD, optionally
// loaded from an env file first.
type EnvProvider struct {
	prefix string
}

// NewEnvProvider builds an env-backed provider. When envFile is non-empty
// its entries are loaded into the process environment without overriding
// variables that are already set.
func NewEnvProvider(envFile string) (*EnvProvider, error) {
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}
	return &EnvProvider{prefix: "P2PFLOW"}, nil
}

func (p *EnvProvider) Get(platform string) (Credentials, bool) {
	key := strings.ToUpper(strings.ReplaceAll(platform, " ", "_"))
	username := os.Getenv(fmt.Sprintf("%s_%s_USERNAME", p.prefix, key))
	password := os.Getenv(fmt.Sprintf("%s_%s_PASSWORD", p.prefix, key))
	if username == "" || password == "" {
		return Credentials{}, false
	}
	return Credentials{Username: username, Password: password}, true
}
