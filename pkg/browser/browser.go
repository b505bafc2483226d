// Package browser defines the capability surface the automation driver
// needs from a browser engine. The concrete engine (chromedriver, remote
// session, test fake) lives outside the core and is injected.
package browser

import (
	"context"
	"time"
)

// By is the locator strategy for a page element.
type By string

const (
	ByID       By = "id"
	ByName     By = "name"
	ByXPath    By = "xpath"
	ByCSS      By = "css"
	ByLinkText By = "link_text"
	ByClass    By = "class"
)

// Locator addresses a single element on the current page.
type Locator struct {
	By    By     `yaml:"by"`
	Value string `yaml:"value"`
}

// IsZero reports whether the locator is unset.
func (l Locator) IsZero() bool {
	return l.Value == ""
}

// Condition is a page predicate a Session can wait on.
type Condition struct {
	// Clickable waits until the element is present and clickable.
	Clickable *Locator
	// Present waits until the element exists in the DOM.
	Present *Locator
}

// Clickable builds a wait condition on an element becoming clickable.
func Clickable(l Locator) Condition { return Condition{Clickable: &l} }

// Present builds a wait condition on an element existing.
func Present(l Locator) Condition { return Condition{Present: &l} }

// Session is one live browser automation session. All blocking calls honor
// the context; implementations return an error when an element cannot be
// found or a wait times out.
type Session interface {
	// Navigate loads the given URL.
	Navigate(ctx context.Context, url string) error
	// Fill clears the element found by loc and types value into it.
	Fill(ctx context.Context, loc Locator, value string) error
	// Click clicks the element found by loc.
	Click(ctx context.Context, loc Locator) error
	// Hover moves the pointer over the element found by loc. Some platforms
	// only reveal their download or logout controls on hover.
	Hover(ctx context.Context, loc Locator) error
	// WaitUntil blocks until cond holds or the timeout elapses.
	WaitUntil(ctx context.Context, cond Condition, timeout time.Duration) error
	// Exists reports whether an element matching loc is currently present,
	// without waiting.
	Exists(ctx context.Context, loc Locator) (bool, error)
	// DownloadDir returns the directory the session writes downloads to.
	DownloadDir() string
	// Close ends the session and releases the engine.
	Close() error
}

// Factory opens a new session for one platform evaluation. Headless controls
// whether the engine may run without a visible window.
type Factory interface {
	NewSession(ctx context.Context, headless bool) (Session, error)
}
