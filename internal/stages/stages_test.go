package stages

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
	"git.home.luguber.info/inful/pkgfoundry/internal/templates"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newRun(t *testing.T, mutate func(*config.Config)) *pipeline.Run {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ProjectName = "Demo Project"
	cfg.PackageName = "demo_pkg"
	cfg.Author = "Jane Doe"
	cfg.Email = "jane@example.com"
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Features.Git = false
	cfg.Features.RunTests = false
	if mutate != nil {
		mutate(cfg)
	}
	return pipeline.NewRun(cfg, provider.NewRegistry(nil, nil), nil, fixedClock())
}

func validated(t *testing.T, run *pipeline.Run) {
	t.Helper()
	v := &Validation{Store: templates.NewStore()}
	require.NoError(t, v.Execute(context.Background(), run))
}

func generated(t *testing.T, run *pipeline.Run) {
	t.Helper()
	validated(t, run)
	g := &Generation{Engine: templates.NewEngine(fixedClock())}
	require.NoError(t, g.Execute(context.Background(), run))
}

func TestValidationResolvesDescriptors(t *testing.T) {
	run := newRun(t, func(c *config.Config) {
		c.Features.CLI = true
	})
	validated(t, run)

	var names []string
	for _, d := range run.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"base", "cli"}, names)
}

func TestValidationRejectsBadConfig(t *testing.T) {
	run := newRun(t, func(c *config.Config) {
		c.PackageName = "7bad"
	})
	v := &Validation{Store: templates.NewStore()}
	err := v.Execute(context.Background(), run)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	assert.True(t, errors.IsFatal(err))
}

func TestGenerationMaterializesManifest(t *testing.T) {
	run := newRun(t, nil)
	generated(t, run)

	root := run.OutputDir()
	for _, p := range []string{
		"src/demo_pkg/__init__.py",
		"src/demo_pkg/core.py",
		"pyproject.toml",
		"tests/test_core.py",
		"README.md",
	} {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(p)))
	}
	assert.NotEmpty(t, run.WrittenPaths())
	assert.Empty(t, run.Warnings())
}

func TestGenerationWarnsOnNonEmptyOutputDir(t *testing.T) {
	run := newRun(t, nil)
	require.NoError(t, os.MkdirAll(run.OutputDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(run.OutputDir(), "existing.txt"), []byte("x"), 0o644))

	generated(t, run)

	require.NotEmpty(t, run.Warnings())
	assert.Contains(t, run.Warnings()[0], "not empty")
}

func TestGenerationKeepsExistingFileWithoutOverride(t *testing.T) {
	run := newRun(t, nil)
	require.NoError(t, os.MkdirAll(run.OutputDir(), 0o755))
	custom := []byte("my readme\n")
	require.NoError(t, os.WriteFile(filepath.Join(run.OutputDir(), "README.md"), custom, 0o644))

	generated(t, run)

	onDisk, err := os.ReadFile(filepath.Join(run.OutputDir(), "README.md"))
	require.NoError(t, err)
	assert.Equal(t, custom, onDisk)

	found := false
	for _, w := range run.Warnings() {
		if w == "generation: kept existing file README.md" {
			found = true
		}
	}
	assert.True(t, found, "collision must leave a warning, got %v", run.Warnings())
}

func TestGenerationIOFailureIsFatal(t *testing.T) {
	run := newRun(t, nil)
	// A regular file where a directory must go forces MkdirAll to fail.
	require.NoError(t, os.MkdirAll(run.OutputDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(run.OutputDir(), "src"), []byte("not a dir"), 0o644))

	validated(t, run)
	g := &Generation{Engine: templates.NewEngine(fixedClock())}
	err := g.Execute(context.Background(), run)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIO))
	assert.True(t, errors.IsFatal(err))
}

func TestGenerationCompensateRemovesWrites(t *testing.T) {
	run := newRun(t, nil)
	generated(t, run)
	require.NotEmpty(t, run.WrittenPaths())

	g := &Generation{Engine: templates.NewEngine(fixedClock())}
	require.NoError(t, g.Compensate(context.Background(), run))

	for _, p := range run.WrittenPaths() {
		assert.NoFileExists(t, p)
	}
	assert.NoDirExists(t, run.OutputDir())
}

func TestTestingPrecondition(t *testing.T) {
	st := &Testing{}

	run := newRun(t, func(c *config.Config) { c.Features.RunTests = false })
	ok, reason := st.Precondition(run)
	assert.False(t, ok)
	assert.Equal(t, "test execution disabled", reason)

	run = newRun(t, func(c *config.Config) {
		c.Features.CreateTests = false
		c.Features.RunTests = true
	})
	ok, reason = st.Precondition(run)
	assert.False(t, ok)
	assert.Equal(t, "test generation disabled", reason)
}

func TestTestingMissingRunnerDegrades(t *testing.T) {
	run := newRun(t, func(c *config.Config) { c.Features.RunTests = true })
	generated(t, run)

	err := (&Testing{}).Execute(context.Background(), run)
	require.Error(t, err, "no test-runner provider registered")
	assert.False(t, errors.IsFatal(err))
	assert.True(t, errors.IsKind(err, errors.KindProvider))
}

func TestDocumentationAddsStructureOverview(t *testing.T) {
	run := newRun(t, nil)
	generated(t, run)

	require.NoError(t, NewDocumentation().Execute(context.Background(), run))

	assert.FileExists(t, filepath.Join(run.OutputDir(), "docs", "STRUCTURE.md"))
	e, ok := run.Expansion().Manifest.Get("docs/STRUCTURE.md")
	require.True(t, ok)
	assert.Equal(t, "documentation", e.Provenance)
	assert.Contains(t, string(e.Content), "src/demo_pkg/core.py")
}

func TestPackagingEmitsContainerAndCIFiles(t *testing.T) {
	run := newRun(t, nil)
	generated(t, run)

	require.NoError(t, (&Packaging{}).Execute(context.Background(), run))

	assert.FileExists(t, filepath.Join(run.OutputDir(), "Dockerfile"))
	assert.FileExists(t, filepath.Join(run.OutputDir(), ".dockerignore"))
	assert.FileExists(t, filepath.Join(run.OutputDir(), "docker-compose.yml"))
	assert.FileExists(t, filepath.Join(run.OutputDir(), ".github", "workflows", "ci.yml"))

	e, ok := run.Expansion().Manifest.Get("Dockerfile")
	require.True(t, ok)
	assert.Equal(t, "packaging", e.Provenance)
}

func TestPackagingSkippedWithoutFeatures(t *testing.T) {
	run := newRun(t, func(c *config.Config) {
		c.Features.Container = false
		c.Features.CI = false
		c.Features.Git = false
	})
	ok, reason := (&Packaging{}).Precondition(run)
	assert.False(t, ok)
	assert.Equal(t, "no packaging features enabled", reason)
}

func TestPackagingOptionalGitFailureDegrades(t *testing.T) {
	run := newRun(t, func(c *config.Config) {
		c.Features.Container = false
		c.Features.CI = false
		c.Features.Git = true
		c.Features.RequireGit = false
	})
	generated(t, run)

	err := (&Packaging{}).Execute(context.Background(), run)
	require.Error(t, err, "no version-control provider registered")
	assert.False(t, errors.IsFatal(err))
}

func TestPackagingRequiredGitFailureIsFatal(t *testing.T) {
	run := newRun(t, func(c *config.Config) {
		c.Features.Container = false
		c.Features.CI = false
		c.Features.Git = true
		c.Features.RequireGit = true
	})
	generated(t, run)

	err := (&Packaging{}).Execute(context.Background(), run)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.True(t, errors.IsKind(err, errors.KindProvider))
}

func TestPackagingGitInitializesRepository(t *testing.T) {
	run := newRunWithGit(t)
	generated(t, run)

	require.NoError(t, (&Packaging{}).Execute(context.Background(), run))

	assert.DirExists(t, filepath.Join(run.OutputDir(), ".git"))
	results := run.ProviderResults()
	require.Contains(t, results, provider.CapabilityVersionControl)
	assert.Equal(t, "repository initialized", results[provider.CapabilityVersionControl].Summary)
}

func newRunWithGit(t *testing.T) *pipeline.Run {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ProjectName = "Demo Project"
	cfg.PackageName = "demo_pkg"
	cfg.Author = "Jane Doe"
	cfg.Email = "jane@example.com"
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Features.Container = false
	cfg.Features.CI = false
	cfg.Features.Git = true
	cfg.Features.RunTests = false

	reg := provider.NewRegistry(nil, nil)
	reg.Register(provider.CapabilityVersionControl, "go-git", provider.NewGitRepo)
	return pipeline.NewRun(cfg, reg, nil, fixedClock())
}

func TestFullPipelineEndToEnd(t *testing.T) {
	run := newRun(t, nil)
	o := pipelineOrchestrator()

	report := o.Execute(context.Background(), run)

	require.Equal(t, pipeline.StatusSucceeded, report.Status, "warnings: %v", report.Warnings)
	assert.Len(t, report.Stages, 5)
	assert.Equal(t, pipeline.StatusSkipped, report.Stages[2].Status, "testing skipped without run_tests")
	assert.FileExists(t, filepath.Join(run.OutputDir(), "pyproject.toml"))
	assert.FileExists(t, filepath.Join(run.OutputDir(), "Dockerfile"))
	assert.NotEmpty(t, report.Files)
	assert.Equal(t, []string{"base"}, report.Descriptors)
}

func pipelineOrchestrator() *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(nil, nil,
		All(templates.NewStore(), templates.NewEngine(fixedClock()))...)
}

func TestPackagingFailureLeavesGeneratedTree(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ProjectName = "Demo Project"
	cfg.PackageName = "demo_pkg"
	cfg.Author = "Jane Doe"
	cfg.Email = "jane@example.com"
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Features.Git = true
	cfg.Features.RequireGit = true
	cfg.Features.RunTests = false

	reg := provider.NewRegistry(nil, nil)
	reg.Register(provider.CapabilityVersionControl, "broken",
		func(map[string]string) (provider.Provider, error) {
			return nil, assert.AnError
		})
	run := pipeline.NewRun(cfg, reg, nil, fixedClock())

	report := pipelineOrchestrator().Execute(context.Background(), run)

	require.Equal(t, pipeline.StatusFailed, report.Status)
	require.Len(t, report.Stages, 5)
	assert.Equal(t, pipeline.StatusFailed, report.Stages[4].Status, "packaging fails on the required capability")

	// The fully generated project survives the late failure.
	for _, p := range []string{
		"README.md",
		"pyproject.toml",
		"src/demo_pkg/core.py",
		"docs/STRUCTURE.md",
	} {
		assert.FileExists(t, filepath.Join(run.OutputDir(), filepath.FromSlash(p)))
	}

	// Packaging's own partial writes are unwound.
	assert.NoFileExists(t, filepath.Join(run.OutputDir(), "Dockerfile"))
	assert.NoFileExists(t, filepath.Join(run.OutputDir(), "docker-compose.yml"))
	assert.NoDirExists(t, filepath.Join(run.OutputDir(), ".github"))
}
