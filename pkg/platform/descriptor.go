// Package platform holds the static, declarative configuration for every
// supported P2P platform. A Descriptor is pure data: the generic automation
// driver and statement parser consume it, no platform gets its own driver
// implementation. Quirks that cannot be expressed declaratively (bespoke
// calendar widgets) hide behind the small Calendar capability interface.
package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nikosa/p2pflow/pkg/browser"
	"github.com/nikosa/p2pflow/pkg/models"
)

// FileFormat is the raw statement file format a platform exports.
type FileFormat string

const (
	FormatCSV FileFormat = "csv"
	FormatXLS FileFormat = "xls"
)

// GenerationKind describes how a platform produces a downloadable statement.
type GenerationKind string

const (
	// GenerationNone: the statement is available as soon as the date range
	// is submitted.
	GenerationNone GenerationKind = "none"
	// GenerationSyncWait: the platform needs a fixed delay before the
	// download control works.
	GenerationSyncWait GenerationKind = "sync_wait"
	// GenerationAsyncPoll: the platform generates the statement in a
	// background job; a completion indicator must be polled.
	GenerationAsyncPoll GenerationKind = "async_poll"
)

// Generation configures the statement generation wait for a platform.
type Generation struct {
	Kind GenerationKind `yaml:"kind"`
	// Delay is the fixed wait under GenerationSyncWait.
	Delay time.Duration `yaml:"delay"`
	// Timeout and Interval bound the polling loop under GenerationAsyncPoll.
	Timeout  time.Duration `yaml:"timeout"`
	Interval time.Duration `yaml:"interval"`
	// Indicator is the element whose presence signals the statement is ready.
	Indicator browser.Locator `yaml:"indicator"`
}

// Columns maps a platform's statement layout onto the canonical model.
type Columns struct {
	// Date and Label name required columns.
	Date  string `yaml:"date"`
	Label string `yaml:"label"`
	// Value names the amount column. Platforms that report inflows and
	// outflows in separate columns leave it empty and set Credit and Debit
	// instead; the parser merges them as credit minus debit.
	Value  string `yaml:"value"`
	Credit string `yaml:"credit"`
	Debit  string `yaml:"debit"`
	// Currency and Balance are optional; an empty name means the statement
	// does not report them.
	Currency string `yaml:"currency"`
	Balance  string `yaml:"balance"`
	// HeaderRows and FooterRows are skipped before/after the data section.
	HeaderRows int `yaml:"header_rows"`
	FooterRows int `yaml:"footer_rows"`
}

// Required lists the column names that must be present in the statement.
func (c Columns) Required() []string {
	req := []string{c.Date, c.Label}
	if c.Value != "" {
		req = append(req, c.Value)
	} else {
		req = append(req, c.Credit, c.Debit)
	}
	if c.Currency != "" {
		req = append(req, c.Currency)
	}
	return req
}

// Calendar drives a bespoke date picker widget that cannot be filled as a
// plain text field. One implementation exists per platform that needs it.
type Calendar interface {
	SetDateRange(ctx context.Context, sess browser.Session, r models.DateRange) error
}

// Descriptor is the immutable per-platform configuration. Instances are
// created once at startup from the registry (plus optional YAML overrides)
// and never mutated afterwards.
type Descriptor struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`

	LoginURL     string `yaml:"login_url"`
	StatementURL string `yaml:"statement_url"`
	LogoutURL    string `yaml:"logout_url"`

	UsernameField browser.Locator `yaml:"username_field"`
	PasswordField browser.Locator `yaml:"password_field"`
	LoginButton   browser.Locator `yaml:"login_button"`
	// LoggedInCheck must become clickable after a successful login.
	LoggedInCheck browser.Locator `yaml:"logged_in_check"`
	// StatementCheck must be present once the statement page has loaded.
	StatementCheck browser.Locator `yaml:"statement_check"`

	// TwoFactorIndicator and CaptchaIndicator, when found on the login page,
	// make the driver give up (2FA) or suspend for the operator (CAPTCHA).
	TwoFactorIndicator browser.Locator `yaml:"two_factor_indicator"`
	CaptchaIndicator   browser.Locator `yaml:"captcha_indicator"`

	StartDateField browser.Locator `yaml:"start_date_field"`
	EndDateField   browser.Locator `yaml:"end_date_field"`
	SubmitButton   browser.Locator `yaml:"submit_button"`
	// DateFormat is the Go reference layout the platform expects in its
	// date fields and uses in statement rows.
	DateFormat string `yaml:"date_format"`
	// Calendar, when set, replaces direct date-field input.
	Calendar Calendar `yaml:"-"`

	Generation Generation `yaml:"generation"`

	DownloadButton      browser.Locator `yaml:"download_button"`
	HoverBeforeDownload bool            `yaml:"hover_before_download"`

	LogoutButton   browser.Locator `yaml:"logout_button"`
	LogoutHover    browser.Locator `yaml:"logout_hover"`
	LoggedOutCheck browser.Locator `yaml:"logged_out_check"`

	// Statement parsing configuration.
	Format        FileFormat                       `yaml:"format"`
	Suffix        string                           `yaml:"suffix"`
	Delimiter     rune                             `yaml:"delimiter"`
	DecimalComma  bool                             `yaml:"decimal_comma"`
	Columns       Columns                          `yaml:"columns"`
	CashFlowTypes map[string]models.CashFlowType   `yaml:"cash_flow_types"`
	// InvertSign flips row amounts for platforms that report outflows as
	// positive numbers.
	InvertSign bool `yaml:"invert_sign"`
	// StartBalanceLabel and EndBalanceLabel identify explicit balance rows
	// used for reconciliation, when the platform reports them.
	StartBalanceLabel string `yaml:"start_balance_label"`
	EndBalanceLabel   string `yaml:"end_balance_label"`

	// SupportsHeadless is false for platforms that detect and block
	// invisible sessions.
	SupportsHeadless bool `yaml:"supports_headless"`
}

// Validate checks that the descriptor carries everything the driver and
// parser need.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}
	if d.LoginURL == "" {
		return fmt.Errorf("%s: no login URL configured", d.Name)
	}
	if d.StatementURL == "" {
		return fmt.Errorf("%s: no statement URL configured", d.Name)
	}
	if d.LogoutURL == "" && d.LogoutButton.IsZero() {
		return fmt.Errorf("%s: no logout method configured", d.Name)
	}
	if d.Columns.Date == "" || d.Columns.Label == "" {
		return fmt.Errorf("%s: incomplete column mapping", d.Name)
	}
	if d.Columns.Value == "" && (d.Columns.Credit == "" || d.Columns.Debit == "") {
		return fmt.Errorf("%s: no value column mapping", d.Name)
	}
	if len(d.CashFlowTypes) == 0 {
		return fmt.Errorf("%s: no cash flow type mapping", d.Name)
	}
	switch d.Generation.Kind {
	case "", GenerationNone, GenerationSyncWait:
	case GenerationAsyncPoll:
		if d.Generation.Timeout <= 0 || d.Generation.Interval <= 0 {
			return fmt.Errorf("%s: async generation needs timeout and interval", d.Name)
		}
		if d.Generation.Indicator.IsZero() {
			return fmt.Errorf("%s: async generation needs a completion indicator", d.Name)
		}
	default:
		return fmt.Errorf("%s: unknown generation kind %q", d.Name, d.Generation.Kind)
	}
	return nil
}

// StatementFileName derives the scratch file name for a downloaded
// statement, e.g. "mintos_statement_20200101-20200131.xlsx".
func (d *Descriptor) StatementFileName(r models.DateRange) string {
	suffix := d.Suffix
	if suffix == "" {
		suffix = string(d.Format)
	}
	return fmt.Sprintf("%s_statement_%s.%s", strings.ToLower(d.Name), r.String(), suffix)
}
