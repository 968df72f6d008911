package pipeline

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
	"git.home.luguber.info/inful/pkgfoundry/internal/templates"
)

// Run is the shared state of one generation run, threaded through every
// stage. The configuration is read-only after validation; everything
// mutable lives behind the lock.
type Run struct {
	id        string
	cfg       *config.Config
	startedAt time.Time
	now       func() time.Time
	log       *slog.Logger
	providers *provider.Registry

	mu          sync.Mutex
	descriptors []*templates.Descriptor
	expansion   *templates.Expansion
	written     []writtenPath
	warnings    []string
	audit       map[provider.Capability]provider.Result
}

// writtenPath records one materialized file with the stage that wrote
// it, so compensation can unwind a failed stage without touching the
// output of stages that completed.
type writtenPath struct {
	stage string
	path  string
}

// NewRun creates the run state. A nil clock means wall time; a nil
// logger means slog.Default.
func NewRun(cfg *config.Config, providers *provider.Registry, log *slog.Logger, now func() time.Time) *Run {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	id := uuid.NewString()
	return &Run{
		id:        id,
		cfg:       cfg,
		startedAt: now(),
		now:       now,
		log:       log.With("run_id", id),
		providers: providers,
		audit:     make(map[provider.Capability]provider.Result),
	}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Config returns the validated configuration. Stages must treat it as
// read-only.
func (r *Run) Config() *config.Config { return r.cfg }

// StartedAt returns the run start time.
func (r *Run) StartedAt() time.Time { return r.startedAt }

// Now returns the current time from the run's clock.
func (r *Run) Now() time.Time { return r.now() }

// Log returns the run-scoped logger.
func (r *Run) Log() *slog.Logger { return r.log }

// Providers returns the provider registry.
func (r *Run) Providers() *provider.Registry { return r.providers }

// OutputDir returns the cleaned output directory path.
func (r *Run) OutputDir() string { return r.cfg.OutputPath() }

// SetDescriptors stores the descriptor set resolved during validation.
func (r *Run) SetDescriptors(ds []*templates.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors = ds
}

// Descriptors returns the resolved descriptor set, nil before the
// validation stage has run.
func (r *Run) Descriptors() []*templates.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.descriptors
}

// SetExpansion stores the template expansion result.
func (r *Run) SetExpansion(e *templates.Expansion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expansion = e
}

// Expansion returns the expansion result, nil before the generation
// stage has run.
func (r *Run) Expansion() *templates.Expansion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expansion
}

// RecordWritten notes a path materialized to disk by a stage, for
// compensation.
func (r *Run) RecordWritten(stage, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written = append(r.written, writtenPath{stage: stage, path: path})
}

// WrittenPaths returns all materialized paths in write order.
func (r *Run) WrittenPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.written))
	for i, w := range r.written {
		out[i] = w.path
	}
	return out
}

// StageWritten returns the paths one stage materialized, in write order.
func (r *Run) StageWritten(stage string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, w := range r.written {
		if w.stage == stage {
			out = append(out, w.path)
		}
	}
	return out
}

// AddWarning records a non-fatal problem for the run report.
func (r *Run) AddWarning(stage, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, stage+": "+message)
}

// Warnings returns all recorded warnings.
func (r *Run) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// RecordProviderResult stores a provider outcome for the report's audit
// trail.
func (r *Run) RecordProviderResult(capability provider.Capability, result provider.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit[capability] = result
}

// ProviderResults returns a copy of the provider audit trail.
func (r *Run) ProviderResults() map[provider.Capability]provider.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[provider.Capability]provider.Result, len(r.audit))
	for k, v := range r.audit {
		out[k] = v
	}
	return out
}
