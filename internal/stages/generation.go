package stages

import (
	"context"
	"os"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/manifest"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
	"git.home.luguber.info/inful/pkgfoundry/internal/templates"
)

// Generation expands the resolved descriptors into the file manifest
// and materializes it under the output directory. Everything in this
// stage is fatal: a half-written project is worse than none, and the
// compensate hook removes whatever did land on disk.
type Generation struct {
	Engine *templates.Engine
}

func (g *Generation) Name() string { return "generation" }

func (g *Generation) Precondition(*pipeline.Run) (bool, string) { return true, "" }

func (g *Generation) Execute(ctx context.Context, run *pipeline.Run) error {
	descriptors := run.Descriptors()
	if descriptors == nil {
		return errors.New(errors.KindInternal, errors.SeverityFatal, "generation ran before validation")
	}

	exp, err := g.Engine.Expand(run.Config(), descriptors)
	if err != nil {
		return err
	}
	run.SetExpansion(exp)
	run.Log().Info("manifest expanded", "files", exp.Manifest.Len(), "descriptors", exp.Descriptors)

	root := run.OutputDir()
	if entries, err := os.ReadDir(root); err == nil && len(entries) > 0 {
		run.AddWarning(g.Name(), "output directory is not empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return errors.IO(err, "create output root").WithContext("dir", root)
	}

	return exp.Manifest.Walk(func(e manifest.Entry) error {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.KindIO, errors.SeverityFatal, "materialization cancelled")
		}
		return writeEntry(run, g.Name(), root, e)
	})
}

// Compensate removes the files this stage wrote, leaving pre-existing
// content in place.
func (g *Generation) Compensate(_ context.Context, run *pipeline.Run) error {
	removeWritten(run, g.Name())
	return nil
}
