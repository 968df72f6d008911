// Package provider abstracts the external capabilities a generation run
// may call on: version control, test execution, report publishing.
// Providers are registered by capability, constructed lazily on first
// use, and cached for the life of the registry. A capability with no
// working provider is unavailable, which is an error only when the
// configuration marks it required.
package provider

import "context"

// Capability names a slot a provider can fill.
type Capability string

const (
	// CapabilityVersionControl initializes a repository in the generated
	// project and creates the initial commit.
	CapabilityVersionControl Capability = "version-control"

	// CapabilityTestRunner executes the generated test suite.
	CapabilityTestRunner Capability = "test-runner"

	// CapabilityNotifier publishes the run report to an external system.
	CapabilityNotifier Capability = "notifier"
)

// Request carries the per-call inputs a provider operates on.
type Request struct {
	// Dir is the absolute path of the generated project root.
	Dir string

	// Options holds capability-scoped settings from the configuration.
	Options map[string]string

	// Payload is an optional opaque body, used by the notifier.
	Payload []byte
}

// Option returns a request option or its default.
func (r Request) Option(key, def string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// Result is a provider execution outcome for the run report.
type Result struct {
	Summary string            `json:"summary"`
	Details map[string]string `json:"details,omitempty"`
}

// Provider is one concrete capability implementation.
type Provider interface {
	// Name identifies the implementation, e.g. "go-git".
	Name() string

	// Capability reports the slot this provider fills.
	Capability() Capability

	// ValidateConnection verifies the provider can operate; called once
	// before the instance is cached.
	ValidateConnection(ctx context.Context) error

	// Execute performs the capability's work.
	Execute(ctx context.Context, req Request) (Result, error)
}

// Factory constructs a provider from capability options.
type Factory func(options map[string]string) (Provider, error)
