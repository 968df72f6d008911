// Package pipeline contains the staged orchestrator that drives a
// generation run: a fixed stage order, a shared run context, and a
// failure policy that distinguishes fatal aborts from degraded
// continuation.
package pipeline

import (
	"context"
	"time"
)

// Status is the terminal state of one stage within a run.
type Status string

const (
	// StatusSucceeded means the stage completed with no warnings.
	StatusSucceeded Status = "succeeded"

	// StatusDegraded means the stage completed but recorded at least one
	// non-fatal failure; the run continues.
	StatusDegraded Status = "degraded"

	// StatusSkipped means the stage's precondition declined to run it.
	StatusSkipped Status = "skipped"

	// StatusFailed means the stage hit a fatal error and aborted the run.
	StatusFailed Status = "failed"

	// StatusNotRun marks stages after a fatal abort or cancellation.
	StatusNotRun Status = "not-run"
)

// StageResult records one stage outcome for the run report.
type StageResult struct {
	Stage    string        `json:"stage"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
	Skipped  string        `json:"skipped,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Stage is one unit of pipeline work. Stages receive the cancellation
// context separately from the run context: the former is the caller's
// lifetime, the latter the run's shared state.
type Stage interface {
	// Name identifies the stage in logs, metrics and the report.
	Name() string

	// Precondition reports whether the stage should run; a false return
	// carries the human-readable skip reason.
	Precondition(run *Run) (bool, string)

	// Execute performs the stage's work. A returned error with fatal
	// severity aborts the run; warning severity degrades the stage.
	Execute(ctx context.Context, run *Run) error

	// Compensate undoes partial effects after a fatal failure. Called on
	// the failed stage and, in reverse order, on stages that already
	// executed. Best effort; compensation errors are logged, not raised.
	Compensate(ctx context.Context, run *Run) error
}
