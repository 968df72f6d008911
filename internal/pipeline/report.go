package pipeline

import (
	"time"

	"git.home.luguber.info/inful/pkgfoundry/internal/manifest"
	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
)

// Report is the full record of one generation run: stage outcomes, the
// produced file set, warnings, and the provider audit trail. Serialized
// as-is into the history store and onto the notifier.
type Report struct {
	RunID       string    `json:"run_id"`
	ProjectName string    `json:"project_name"`
	PackageName string    `json:"package_name"`
	OutputDir   string    `json:"output_dir"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`

	// Status is the overall run outcome: failed when any stage failed,
	// degraded when any stage degraded, succeeded otherwise.
	Status Status `json:"status"`

	Stages      []StageResult                           `json:"stages"`
	Files       []manifest.Summary                      `json:"files,omitempty"`
	Warnings    []string                                `json:"warnings,omitempty"`
	Descriptors []string                                `json:"descriptors,omitempty"`
	Providers   map[provider.Capability]provider.Result `json:"providers,omitempty"`
}

// Succeeded reports whether the run produced a usable project, which
// includes degraded runs.
func (r *Report) Succeeded() bool {
	return r.Status == StatusSucceeded || r.Status == StatusDegraded
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func overallStatus(stages []StageResult) Status {
	status := StatusSucceeded
	for _, s := range stages {
		switch s.Status {
		case StatusFailed:
			return StatusFailed
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
