// Package worker sequences the evaluation pipeline: for every selected
// platform it obtains credentials, drives the statement download, parses the
// result and folds the records into the shared aggregate. Exactly one
// pipeline is active at a time; one platform's failure never prevents the
// evaluation of the others.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/nikosa/p2pflow/pkg/aggregate"
	"github.com/nikosa/p2pflow/pkg/credentials"
	"github.com/nikosa/p2pflow/pkg/driver"
	"github.com/nikosa/p2pflow/pkg/models"
	"github.com/nikosa/p2pflow/pkg/parser"
	"github.com/nikosa/p2pflow/pkg/platform"
)

// JobState tracks one platform's evaluation lifecycle.
type JobState string

const (
	StatePending           JobState = "pending"
	StateAuthenticating    JobState = "authenticating"
	StateAwaitingStatement JobState = "awaiting_statement"
	StateDownloading       JobState = "downloading"
	StateParsing           JobState = "parsing"
	StateSucceeded         JobState = "succeeded"
	StateFailed            JobState = "failed"
	StateIgnored           JobState = "ignored"
)

// Event is one progress notification. Events flow one way, from the worker
// to whatever surface observes the run; the worker has no dependency on it.
type Event struct {
	Platform string
	State    JobState
	Message  string
}

// ErrNoResults is the only error surfaced as a fatal outcome of a whole
// run: every selected platform failed or was ignored.
var ErrNoResults = errors.New("no results available")

// ErrCredentialsMissing fails a single job when the provider cannot supply
// credentials for its platform.
var ErrCredentialsMissing = errors.New("credentials missing")

// Fetcher produces the raw statement file for one platform. The automation
// driver is the production implementation; FileFetcher serves pre-downloaded
// statements.
type Fetcher interface {
	Run(ctx context.Context, desc *platform.Descriptor, creds credentials.Credentials, dateRange models.DateRange) (string, error)
}

// Outcome reports how one platform's job ended.
type Outcome struct {
	Platform string
	State    JobState
	// Err is set for failed jobs; FailureKind carries the automation error
	// kind when the failure came from the driver.
	Err         error
	FailureKind driver.Kind
	// Statement is the raw file path for jobs that got that far.
	Statement string
	Records   int
	// UnknownLabels and Warnings are non-fatal diagnostics from the parser.
	UnknownLabels []string
	Warnings      []string
}

// Worker evaluates selected platforms sequentially.
type Worker struct {
	registry *platform.Registry
	fetcher  Fetcher
	parser   *parser.Parser
	creds    credentials.Provider
	logger   *log.Logger

	notify func(Event)
}

// New creates a worker.
func New(registry *platform.Registry, fetcher Fetcher, p *parser.Parser, creds credentials.Provider, logger *log.Logger) *Worker {
	return &Worker{
		registry: registry,
		fetcher:  fetcher,
		parser:   p,
		creds:    creds,
		logger:   logger,
	}
}

// SetNotifier installs the progress event sink. Must be called before
// Evaluate.
func (w *Worker) SetNotifier(fn func(Event)) {
	w.notify = fn
}

func (w *Worker) emit(platform string, state JobState, format string, args ...any) {
	if w.notify == nil {
		return
	}
	w.notify(Event{Platform: platform, State: state, Message: fmt.Sprintf(format, args...)})
}

// Evaluate runs the pipeline for every selected platform in alphabetical
// order and returns the aggregated results plus one outcome per platform.
// Cancellation is cooperative and only checked between platform jobs: an
// in-flight pipeline runs to completion or failure first, so worst-case
// cancellation latency is the duration of one platform's pipeline. When no
// platform succeeds the returned error is ErrNoResults.
func (w *Worker) Evaluate(ctx context.Context, selected []string, dateRange models.DateRange) (*aggregate.ResultSet, []Outcome, error) {
	names := append([]string(nil), selected...)
	sort.Strings(names)

	results := aggregate.New(dateRange)
	outcomes := make([]Outcome, 0, len(names))
	succeeded := 0
	cancelled := false

	for _, name := range names {
		if !cancelled && ctx.Err() != nil {
			cancelled = true
			w.logger.Info("run cancelled, skipping remaining platforms")
		}
		if cancelled {
			w.emit(name, StateIgnored, "%s skipped after cancellation", name)
			outcomes = append(outcomes, Outcome{Platform: name, State: StateIgnored})
			continue
		}

		outcome := w.evaluatePlatform(ctx, name, dateRange, results)
		if outcome.State == StateSucceeded {
			succeeded++
		}
		outcomes = append(outcomes, outcome)
	}

	if succeeded == 0 {
		return results, outcomes, ErrNoResults
	}
	return results, outcomes, nil
}

// evaluatePlatform runs one job end to end. All pipeline errors are caught
// here and recorded in the outcome; nothing escapes to the caller.
func (w *Worker) evaluatePlatform(ctx context.Context, name string, dateRange models.DateRange, results *aggregate.ResultSet) Outcome {
	w.emit(name, StatePending, "starting evaluation of %s", name)

	desc, err := w.registry.Get(name)
	if err != nil {
		w.emit(name, StateFailed, "%s will be ignored: %v", name, err)
		return Outcome{Platform: name, State: StateFailed, Err: err}
	}

	creds, ok := w.creds.Get(name)
	if !ok {
		err := fmt.Errorf("%s: %w", name, ErrCredentialsMissing)
		w.logger.Warn("no credentials available", "platform", name)
		w.emit(name, StateFailed, "%s will be ignored: no credentials", name)
		return Outcome{Platform: name, State: StateFailed, Err: err}
	}

	w.emit(name, StateAuthenticating, "%s: logging in", name)
	statement, err := w.fetcher.Run(ctx, desc, creds, dateRange)
	if err != nil {
		w.logger.Error("statement download failed", "platform", name, "error", err)
		w.emit(name, StateFailed, "%s will be ignored: %v", name, err)
		return Outcome{Platform: name, State: StateFailed, Err: err, FailureKind: driver.KindOf(err)}
	}
	w.emit(name, StateDownloading, "%s: statement downloaded", name)

	w.emit(name, StateParsing, "%s: parsing statement", name)
	st, err := w.parser.Parse(desc, statement, dateRange)
	if err != nil {
		w.logger.Error("statement parsing failed", "platform", name, "error", err)
		w.emit(name, StateFailed, "%s will be ignored: %v", name, err)
		return Outcome{Platform: name, State: StateFailed, Err: err, Statement: statement}
	}

	for _, label := range st.UnknownLabels {
		w.emit(name, StateParsing,
			"%s: unknown cash flow type will be ignored in result: %s", name, label)
	}
	for _, warning := range st.Warnings {
		w.emit(name, StateParsing, "%s", warning)
	}

	results.Fold(name, st.Records)
	w.emit(name, StateSucceeded, "%s successfully evaluated", name)

	return Outcome{
		Platform:      name,
		State:         StateSucceeded,
		Statement:     statement,
		Records:       len(st.Records),
		UnknownLabels: st.UnknownLabels,
		Warnings:      st.Warnings,
	}
}
