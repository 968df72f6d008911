package stages

import (
	"context"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
)

// Testing executes the generated test suite through the test-runner
// capability. A failing or missing runner degrades the run; the
// generated project is still delivered.
type Testing struct{}

func (t *Testing) Name() string { return "testing" }

func (t *Testing) Precondition(run *pipeline.Run) (bool, string) {
	f := run.Config().Features
	if !f.CreateTests {
		return false, "test generation disabled"
	}
	if !f.RunTests {
		return false, "test execution disabled"
	}
	return true, ""
}

func (t *Testing) Execute(ctx context.Context, run *pipeline.Run) error {
	cfg := run.Config()
	options := map[string]string{}
	for k, v := range cfg.Options[string(provider.CapabilityTestRunner)] {
		options[k] = v
	}
	if options["command"] == "" {
		options["command"] = testCommand(cfg.TestFramework)
	}

	result, err := run.Providers().Invoke(ctx, provider.CapabilityTestRunner, provider.Request{
		Dir:     run.OutputDir(),
		Options: options,
	}, false)
	if err != nil {
		return err
	}
	run.RecordProviderResult(provider.CapabilityTestRunner, result)
	run.Log().Info("test suite executed", "summary", result.Summary)
	return nil
}

func (t *Testing) Compensate(context.Context, *pipeline.Run) error { return nil }

func testCommand(framework config.TestFramework) string {
	if framework == config.TestFrameworkUnittest {
		return "python -m unittest discover -s tests"
	}
	return "pytest"
}
