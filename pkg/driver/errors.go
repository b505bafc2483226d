package driver

import (
	"errors"
	"fmt"
)

// Kind classifies an automation failure.
type Kind string

const (
	LoginFailed                Kind = "login_failed"
	NavigationFailed           Kind = "navigation_failed"
	GenerationTimeout          Kind = "generation_timeout"
	DownloadFailed             Kind = "download_failed"
	LogoutFailed               Kind = "logout_failed"
	HeadlessUnsupported        Kind = "headless_unsupported"
	TwoFactorUnsupported       Kind = "two_factor_unsupported"
	ManualInterventionRequired Kind = "manual_intervention_required"
	DownloadDirectoryNotEmpty  Kind = "download_directory_not_empty"
)

// Error is an automation failure tied to one platform pipeline. LogoutFailed
// is the only non-fatal kind: the driver reports it without discarding an
// already downloaded statement.
type Error struct {
	Platform string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Platform, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Platform, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err, or "" when err is not an
// automation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func (d *Driver) failf(platform string, kind Kind, format string, args ...any) *Error {
	return &Error{Platform: platform, Kind: kind, Err: fmt.Errorf(format, args...)}
}
