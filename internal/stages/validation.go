// Package stages contains the concrete pipeline stages in execution
// order: validation, generation, testing, documentation, packaging.
package stages

import (
	"context"

	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
	"git.home.luguber.info/inful/pkgfoundry/internal/templates"
)

// Validation re-checks the configuration and resolves the descriptor
// set before anything touches the disk. Runs unconditionally; every
// failure here is fatal.
type Validation struct {
	Store *templates.Store
}

func (v *Validation) Name() string { return "validation" }

func (v *Validation) Precondition(*pipeline.Run) (bool, string) { return true, "" }

func (v *Validation) Execute(_ context.Context, run *pipeline.Run) error {
	cfg := run.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	descriptors, err := v.Store.Select(cfg)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	run.Log().Info("descriptors resolved", "descriptors", names)
	run.SetDescriptors(descriptors)
	return nil
}

// Compensate is a no-op: validation has no side effects.
func (v *Validation) Compensate(context.Context, *pipeline.Run) error { return nil }
