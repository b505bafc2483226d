// Package driver turns a platform descriptor into a finite sequence of
// browser interactions: log in, open the statement page, set the date range,
// wait for statement generation, download the export file and log out. The
// driver owns the per-platform state machine; it never retries a failed
// transition on its own.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nikosa/p2pflow/pkg/browser"
	"github.com/nikosa/p2pflow/pkg/credentials"
	"github.com/nikosa/p2pflow/pkg/models"
	"github.com/nikosa/p2pflow/pkg/platform"
)

// State names one step of the automation pipeline.
type State string

const (
	StateInit                State = "init"
	StateLoggingIn           State = "logging_in"
	StateLoggedIn            State = "logged_in"
	StateSettingDateRange    State = "setting_date_range"
	StateGeneratingStatement State = "generating_statement"
	StateDownloading         State = "downloading"
	StateDownloaded          State = "downloaded"
	StateLoggingOut          State = "logging_out"
	StateDone                State = "done"
)

// Driver runs the automation pipeline for a single platform at a time. The
// scratch directory is owned exclusively by the active pipeline; it must be
// empty before a run starts.
type Driver struct {
	factory    browser.Factory
	scratchDir string
	headless   bool
	logger     *log.Logger

	// WaitTimeout bounds every single page wait (login check, statement
	// page load, logged-out check).
	WaitTimeout time.Duration
	// DownloadTimeout bounds the wait for the export file to land in the
	// session's download directory.
	DownloadTimeout time.Duration

	// OnState, when set, receives every state transition.
	OnState func(platform string, state State)
	// OnManualIntervention, when set, is called when a CAPTCHA challenge is
	// detected. It blocks until the operator has resolved the challenge
	// out-of-band, or returns an error to abort the pipeline. When nil the
	// pipeline fails with ManualInterventionRequired.
	OnManualIntervention func(ctx context.Context, platform string) error
}

// New creates a driver writing downloads below scratchDir.
func New(factory browser.Factory, scratchDir string, headless bool, logger *log.Logger) *Driver {
	return &Driver{
		factory:         factory,
		scratchDir:      scratchDir,
		headless:        headless,
		logger:          logger,
		WaitTimeout:     30 * time.Second,
		DownloadTimeout: 30 * time.Second,
	}
}

func (d *Driver) transition(name string, state State) {
	d.logger.Debug("state transition", "platform", name, "state", state)
	if d.OnState != nil {
		d.OnState(name, state)
	}
}

// Run executes the full pipeline for one platform and returns the path of
// the downloaded statement file. Exactly one file is written below the
// scratch directory per successful run. A LogoutFailed error is never
// returned: failing to log out is logged and the downloaded file kept.
func (d *Driver) Run(ctx context.Context, desc *platform.Descriptor, creds credentials.Credentials, dateRange models.DateRange) (string, error) {
	d.transition(desc.Name, StateInit)

	if d.headless && !desc.SupportsHeadless {
		return "", d.failf(desc.Name, HeadlessUnsupported,
			"platform does not work in a headless session")
	}

	// The target directory must be empty before anything touches the
	// platform, so a stale export can never be mistaken for this run's.
	target, err := d.prepareTargetDir(desc)
	if err != nil {
		return "", err
	}

	sess, err := d.factory.NewSession(ctx, d.headless)
	if err != nil {
		return "", d.failf(desc.Name, LoginFailed, "opening browser session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			d.logger.Warn("closing browser session", "platform", desc.Name, "error", cerr)
		}
	}()

	if err := d.login(ctx, sess, desc, creds); err != nil {
		return "", err
	}

	if err := d.setDateRange(ctx, sess, desc, dateRange); err != nil {
		return "", err
	}

	if err := d.awaitGeneration(ctx, sess, desc); err != nil {
		return "", err
	}

	statement, err := d.download(ctx, sess, desc, target, dateRange)
	if err != nil {
		return "", err
	}
	d.transition(desc.Name, StateDownloaded)

	d.transition(desc.Name, StateLoggingOut)
	if err := d.logout(ctx, sess, desc); err != nil {
		// Non-fatal: the statement is already on disk.
		d.logger.Warn("logout failed", "platform", desc.Name, "error", err)
	}

	d.transition(desc.Name, StateDone)
	return statement, nil
}

// prepareTargetDir creates the per-platform scratch directory and verifies
// it is empty.
func (d *Driver) prepareTargetDir(desc *platform.Descriptor) (string, error) {
	dir := filepath.Join(d.scratchDir, strings.ToLower(desc.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", d.failf(desc.Name, DownloadFailed, "creating scratch directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", d.failf(desc.Name, DownloadFailed, "reading scratch directory: %w", err)
	}
	if len(entries) > 0 {
		return "", d.failf(desc.Name, DownloadDirectoryNotEmpty,
			"scratch directory %s is not empty", dir)
	}
	return dir, nil
}

func (d *Driver) login(ctx context.Context, sess browser.Session, desc *platform.Descriptor, creds credentials.Credentials) error {
	d.transition(desc.Name, StateLoggingIn)

	if err := sess.Navigate(ctx, desc.LoginURL); err != nil {
		return d.failf(desc.Name, LoginFailed, "loading login page: %w", err)
	}

	if err := d.checkChallenges(ctx, sess, desc); err != nil {
		return err
	}

	if err := sess.Fill(ctx, desc.UsernameField, creds.Username); err != nil {
		return d.failf(desc.Name, LoginFailed, "filling username: %w", err)
	}
	if err := sess.Fill(ctx, desc.PasswordField, creds.Password); err != nil {
		return d.failf(desc.Name, LoginFailed, "filling password: %w", err)
	}
	if err := sess.Click(ctx, desc.LoginButton); err != nil {
		return d.failf(desc.Name, LoginFailed, "submitting login form: %w", err)
	}

	if err := sess.WaitUntil(ctx, browser.Clickable(desc.LoggedInCheck), d.WaitTimeout); err != nil {
		// Classify before blaming the credentials: the page may instead be
		// asking for a second factor or showing a CAPTCHA.
		if cerr := d.checkChallenges(ctx, sess, desc); cerr != nil {
			return cerr
		}
		return d.failf(desc.Name, LoginFailed, "login was not successful: %w", err)
	}

	d.transition(desc.Name, StateLoggedIn)
	return nil
}

// checkChallenges looks for 2FA and CAPTCHA indicators on the current page.
// Two-factor authentication is terminal. A CAPTCHA suspends the pipeline
// until the operator resolves it, when a resolver is configured.
func (d *Driver) checkChallenges(ctx context.Context, sess browser.Session, desc *platform.Descriptor) error {
	if !desc.TwoFactorIndicator.IsZero() {
		found, err := sess.Exists(ctx, desc.TwoFactorIndicator)
		if err != nil {
			return d.failf(desc.Name, LoginFailed, "checking for two-factor prompt: %w", err)
		}
		if found {
			return d.failf(desc.Name, TwoFactorUnsupported,
				"two-factor authentication is not supported")
		}
	}
	if !desc.CaptchaIndicator.IsZero() {
		found, err := sess.Exists(ctx, desc.CaptchaIndicator)
		if err != nil {
			return d.failf(desc.Name, LoginFailed, "checking for captcha: %w", err)
		}
		if found {
			if d.OnManualIntervention == nil {
				return d.failf(desc.Name, ManualInterventionRequired,
					"captcha challenge detected")
			}
			d.logger.Info("waiting for operator to solve captcha", "platform", desc.Name)
			if err := d.OnManualIntervention(ctx, desc.Name); err != nil {
				return d.failf(desc.Name, ManualInterventionRequired,
					"captcha was not resolved: %w", err)
			}
		}
	}
	return nil
}

func (d *Driver) setDateRange(ctx context.Context, sess browser.Session, desc *platform.Descriptor, dateRange models.DateRange) error {
	d.transition(desc.Name, StateSettingDateRange)

	if err := sess.Navigate(ctx, desc.StatementURL); err != nil {
		return d.failf(desc.Name, NavigationFailed, "loading statement page: %w", err)
	}
	if err := sess.WaitUntil(ctx, browser.Present(desc.StatementCheck), d.WaitTimeout); err != nil {
		return d.failf(desc.Name, NavigationFailed, "statement page did not load: %w", err)
	}

	if desc.Calendar != nil {
		if err := desc.Calendar.SetDateRange(ctx, sess, dateRange); err != nil {
			return d.failf(desc.Name, NavigationFailed, "driving calendar widget: %w", err)
		}
	} else {
		if err := sess.Fill(ctx, desc.StartDateField, dateRange.Start.Format(desc.DateFormat)); err != nil {
			return d.failf(desc.Name, NavigationFailed, "filling start date: %w", err)
		}
		if err := sess.Fill(ctx, desc.EndDateField, dateRange.End.Format(desc.DateFormat)); err != nil {
			return d.failf(desc.Name, NavigationFailed, "filling end date: %w", err)
		}
	}

	if !desc.SubmitButton.IsZero() {
		if err := sess.Click(ctx, desc.SubmitButton); err != nil {
			return d.failf(desc.Name, NavigationFailed, "triggering statement generation: %w", err)
		}
	}
	return nil
}

// awaitGeneration waits for the platform to produce the statement according
// to the descriptor's generation mode.
func (d *Driver) awaitGeneration(ctx context.Context, sess browser.Session, desc *platform.Descriptor) error {
	gen := desc.Generation
	if gen.Kind == "" || gen.Kind == platform.GenerationNone {
		return nil
	}
	d.transition(desc.Name, StateGeneratingStatement)

	switch gen.Kind {
	case platform.GenerationSyncWait:
		select {
		case <-time.After(gen.Delay):
			return nil
		case <-ctx.Done():
			return d.failf(desc.Name, GenerationTimeout, "cancelled while waiting: %w", ctx.Err())
		}
	case platform.GenerationAsyncPoll:
		deadline := time.Now().Add(gen.Timeout)
		ticker := time.NewTicker(gen.Interval)
		defer ticker.Stop()
		for {
			found, err := sess.Exists(ctx, gen.Indicator)
			if err != nil {
				return d.failf(desc.Name, GenerationTimeout, "polling completion indicator: %w", err)
			}
			if found {
				return nil
			}
			if time.Now().After(deadline) {
				return d.failf(desc.Name, GenerationTimeout,
					"statement generation did not finish within %s", gen.Timeout)
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return d.failf(desc.Name, GenerationTimeout, "cancelled while polling: %w", ctx.Err())
			}
		}
	}
	return fmt.Errorf("%s: unknown generation kind %q", desc.Name, gen.Kind)
}

func (d *Driver) download(ctx context.Context, sess browser.Session, desc *platform.Descriptor, targetDir string, dateRange models.DateRange) (string, error) {
	d.transition(desc.Name, StateDownloading)

	if desc.HoverBeforeDownload {
		if err := sess.Hover(ctx, desc.DownloadButton); err != nil {
			return "", d.failf(desc.Name, DownloadFailed, "hovering download control: %w", err)
		}
	}
	if err := sess.Click(ctx, desc.DownloadButton); err != nil {
		return "", d.failf(desc.Name, DownloadFailed, "clicking download control: %w", err)
	}

	downloaded, err := d.waitForDownload(ctx, sess.DownloadDir())
	if err != nil {
		return "", d.failf(desc.Name, DownloadFailed, "%w", err)
	}

	target := filepath.Join(targetDir, desc.StatementFileName(dateRange))
	if err := os.Rename(downloaded, target); err != nil {
		return "", d.failf(desc.Name, DownloadFailed, "moving statement to scratch directory: %w", err)
	}
	return target, nil
}

// waitForDownload polls the session download directory until exactly one
// finished file is present. Browser engines mark in-flight downloads with a
// temporary suffix, which is ignored while waiting.
func (d *Driver) waitForDownload(ctx context.Context, dir string) (string, error) {
	deadline := time.Now().Add(d.DownloadTimeout)
	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("reading download directory: %w", err)
		}

		var finished []string
		inFlight := false
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if isPartialDownload(e.Name()) {
				inFlight = true
				continue
			}
			finished = append(finished, filepath.Join(dir, e.Name()))
		}

		if !inFlight && len(finished) == 1 {
			return finished[0], nil
		}
		if len(finished) > 1 {
			// The download directory is created per session, so a second
			// file means something outside this pipeline wrote to it.
			return "", fmt.Errorf("download directory %s holds %d files", dir, len(finished))
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("download did not finish within %s", d.DownloadTimeout)
		}
		select {
		case <-time.After(250 * time.Millisecond):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func isPartialDownload(name string) bool {
	return strings.HasSuffix(name, ".crdownload") || strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".tmp")
}

func (d *Driver) logout(ctx context.Context, sess browser.Session, desc *platform.Descriptor) error {
	if !desc.LogoutButton.IsZero() {
		if !desc.LogoutHover.IsZero() {
			if err := sess.Hover(ctx, desc.LogoutHover); err != nil {
				return fmt.Errorf("hovering logout menu: %w", err)
			}
		}
		if err := sess.Click(ctx, desc.LogoutButton); err != nil {
			return fmt.Errorf("clicking logout: %w", err)
		}
	} else {
		if err := sess.Navigate(ctx, desc.LogoutURL); err != nil {
			return fmt.Errorf("loading logout page: %w", err)
		}
	}
	if desc.LoggedOutCheck.IsZero() {
		return nil
	}
	if err := sess.WaitUntil(ctx, browser.Present(desc.LoggedOutCheck), d.WaitTimeout); err != nil {
		return fmt.Errorf("logout confirmation: %w", err)
	}
	return nil
}
