package stages

import (
	"context"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/manifest"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
	"git.home.luguber.info/inful/pkgfoundry/internal/templates"
)

// Packaging finishes the project for distribution: container files, the
// CI workflow, and repository initialization through the
// version-control capability. Version control failing is fatal only
// when the configuration requires it.
type Packaging struct{}

func (p *Packaging) Name() string { return "packaging" }

func (p *Packaging) Precondition(run *pipeline.Run) (bool, string) {
	f := run.Config().Features
	if !f.Container && !f.CI && !f.Git {
		return false, "no packaging features enabled"
	}
	return true, ""
}

// containerFiles pairs content templates with their output paths, in
// emission order.
var containerFiles = []struct{ template, path string }{
	{"dockerfile", "Dockerfile"},
	{"dockerignore", ".dockerignore"},
	{"docker_compose", "docker-compose.yml"},
}

func (p *Packaging) Execute(ctx context.Context, run *pipeline.Run) error {
	exp := run.Expansion()
	if exp == nil {
		return errors.New(errors.KindInternal, errors.SeverityFatal, "packaging ran before generation")
	}
	cfg := run.Config()

	if cfg.Features.Container {
		for _, f := range containerFiles {
			if err := p.emit(run, exp, f.template, f.path); err != nil {
				return err
			}
		}
	}
	if cfg.Features.CI {
		if err := p.emit(run, exp, "github_workflow", ".github/workflows/ci.yml"); err != nil {
			return err
		}
	}

	if cfg.Features.Git {
		result, err := run.Providers().Invoke(ctx, provider.CapabilityVersionControl, provider.Request{
			Dir:     run.OutputDir(),
			Options: cfg.Options[string(provider.CapabilityVersionControl)],
		}, cfg.Features.RequireGit)
		if err != nil {
			return err
		}
		run.RecordProviderResult(provider.CapabilityVersionControl, result)
		run.Log().Info("repository initialized", "summary", result.Summary)
	}
	return nil
}

// emit renders one packaging file, records it in the manifest with this
// stage's provenance, and writes it to disk.
func (p *Packaging) emit(run *pipeline.Run, exp *templates.Expansion, tpl, path string) error {
	content, err := templates.RenderContent(tpl, exp.Data)
	if err != nil {
		return err
	}
	entry := manifest.Entry{
		Path:       path,
		Content:    content,
		Provenance: p.Name(),
	}
	if exp.Manifest.Has(path) {
		if err := exp.Manifest.Supersede(entry); err != nil {
			return err
		}
	} else if err := exp.Manifest.Add(entry); err != nil {
		return err
	}
	return writeEntry(run, p.Name(), run.OutputDir(), entry)
}

// Compensate removes the container and CI files this stage wrote. The
// generated project from earlier stages stays on disk.
func (p *Packaging) Compensate(_ context.Context, run *pipeline.Run) error {
	removeWritten(run, p.Name())
	return nil
}
