package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/metrics"
)

// ErrUnavailable is the sentinel wrapped into every error returned for
// a capability that has no working provider.
var ErrUnavailable = stderrors.New("no provider available")

type registration struct {
	name    string
	factory Factory
}

// Registry holds provider registrations keyed by capability. Instances
// are constructed lazily: on first request the registrations for the
// capability are tried in registration order, the first one that
// constructs and validates is cached, and the losing candidates are
// never retried.
type Registry struct {
	mu            sync.Mutex
	registrations map[Capability][]registration
	instances     map[Capability]Provider
	selected      map[Capability]string
	failed        map[Capability]error

	log      *slog.Logger
	recorder metrics.Recorder
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger, recorder metrics.Recorder) *Registry {
	if log == nil {
		log = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Registry{
		registrations: make(map[Capability][]registration),
		instances:     make(map[Capability]Provider),
		selected:      make(map[Capability]string),
		failed:        make(map[Capability]error),
		log:           log,
		recorder:      recorder,
	}
}

// Register adds a factory for a capability. Registration order is the
// selection preference order.
func (r *Registry) Register(capability Capability, name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations[capability] = append(r.registrations[capability], registration{name: name, factory: factory})
}

// Capabilities lists the capabilities with at least one registration.
func (r *Registry) Capabilities() []Capability {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Capability, 0, len(r.registrations))
	for c := range r.registrations {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Selected reports which implementation serves a capability, once one
// has been constructed. Kept for the run report's audit trail.
func (r *Registry) Selected(capability Capability) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.selected[capability]
	return name, ok
}

// Get returns the cached or newly constructed provider for a
// capability. When every candidate fails the returned error wraps
// ErrUnavailable with warning severity; required call sites use
// GetRequired instead.
func (r *Registry) Get(ctx context.Context, capability Capability, options map[string]string) (Provider, error) {
	p, err := r.resolve(ctx, capability, options)
	if err != nil {
		return nil, errors.Provider(err, "capability unavailable").
			WithContext("capability", string(capability))
	}
	return p, nil
}

// GetRequired is Get with fatal severity for capabilities the
// configuration marks mandatory.
func (r *Registry) GetRequired(ctx context.Context, capability Capability, options map[string]string) (Provider, error) {
	p, err := r.resolve(ctx, capability, options)
	if err != nil {
		return nil, errors.ProviderRequired(err, "required capability unavailable").
			WithContext("capability", string(capability))
	}
	return p, nil
}

func (r *Registry) resolve(ctx context.Context, capability Capability, options map[string]string) (Provider, error) {
	r.mu.Lock()
	if p, ok := r.instances[capability]; ok {
		r.mu.Unlock()
		return p, nil
	}
	if err, ok := r.failed[capability]; ok {
		r.mu.Unlock()
		return nil, err
	}
	candidates := make([]registration, len(r.registrations[capability]))
	copy(candidates, r.registrations[capability])
	r.mu.Unlock()

	if len(candidates) == 0 {
		err := fmt.Errorf("%w: no registrations for %s", ErrUnavailable, capability)
		r.remember(capability, nil, "", err)
		return nil, err
	}

	var lastErr error
	for _, candidate := range candidates {
		p, err := candidate.factory(options)
		if err != nil {
			r.log.Debug("provider construction failed",
				"capability", capability, "provider", candidate.name, "error", err)
			lastErr = err
			continue
		}
		if err := p.ValidateConnection(ctx); err != nil {
			r.log.Debug("provider validation failed",
				"capability", capability, "provider", candidate.name, "error", err)
			lastErr = err
			continue
		}
		r.remember(capability, p, candidate.name, nil)
		r.log.Debug("provider selected", "capability", capability, "provider", candidate.name)
		return p, nil
	}

	err := fmt.Errorf("%w: all candidates for %s failed: %v", ErrUnavailable, capability, lastErr)
	r.remember(capability, nil, "", err)
	return nil, err
}

// Close tears down the registry: cached instances holding external
// resources (an io.Closer) are closed and every cache is dropped, so a
// closed registry resolves from scratch if reused.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for capability, p := range r.instances {
		closer, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			r.log.Warn("provider close failed", "capability", capability, "provider", p.Name(), "error", err)
		}
	}
	r.instances = make(map[Capability]Provider)
	r.selected = make(map[Capability]string)
	r.failed = make(map[Capability]error)
}

func (r *Registry) remember(capability Capability, p Provider, name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failed[capability] = err
		return
	}
	r.instances[capability] = p
	r.selected[capability] = name
}

// Invoke resolves and executes a capability in one call, recording the
// provider metrics. Required selects the failure severity.
func (r *Registry) Invoke(ctx context.Context, capability Capability, req Request, required bool) (Result, error) {
	var (
		p   Provider
		err error
	)
	if required {
		p, err = r.GetRequired(ctx, capability, req.Options)
	} else {
		p, err = r.Get(ctx, capability, req.Options)
	}
	if err != nil {
		r.recorder.ProviderCall(string(capability), true)
		return Result{}, err
	}

	result, execErr := p.Execute(ctx, req)
	r.recorder.ProviderCall(string(capability), execErr != nil)
	if execErr != nil {
		if required {
			return Result{}, errors.ProviderRequired(execErr, "provider execution failed").
				WithContext("capability", string(capability)).
				WithContext("provider", p.Name())
		}
		return Result{}, errors.Provider(execErr, "provider execution failed").
			WithContext("capability", string(capability)).
			WithContext("provider", p.Name())
	}
	return result, nil
}
