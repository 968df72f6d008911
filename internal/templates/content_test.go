package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
)

func TestClassName(t *testing.T) {
	cases := map[string]string{
		"demo_pkg":      "DemoPkg",
		"single":        "Single",
		"a_b_c":         "ABC",
		"trailing_":     "Trailing",
		"__underscore_": "Underscore",
		"":              "App",
	}
	for in, want := range cases {
		assert.Equal(t, want, ClassName(in), "input %q", in)
	}
}

func renderData(mutate func(*config.Config)) RenderData {
	cfg := config.DefaultConfig()
	cfg.ProjectName = "Demo Project"
	cfg.PackageName = "demo_pkg"
	cfg.Author = "Jane Doe"
	cfg.Email = "jane@example.com"
	if mutate != nil {
		mutate(cfg)
	}
	return NewRenderData(cfg, []string{"requests>=2.31"}, []string{"pytest>=7.0"},
		time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
}

func TestRenderPyproject(t *testing.T) {
	out, err := RenderContent("pyproject", renderData(func(c *config.Config) {
		c.Features.CLI = true
	}))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `name = "demo_pkg"`)
	assert.Contains(t, s, `"requests>=2.31",`)
	assert.Contains(t, s, `demo_pkg = "demo_pkg.cli:main"`)
	assert.Contains(t, s, `requires-python = ">=3.9"`)
}

func TestRenderPyprojectWithoutCLIScript(t *testing.T) {
	out, err := RenderContent("pyproject", renderData(nil))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "[project.scripts]")
}

func TestRenderDockerfileBranchesOnWebFramework(t *testing.T) {
	web, err := RenderContent("dockerfile", renderData(func(c *config.Config) {
		c.Features.WebFramework = true
	}))
	require.NoError(t, err)
	assert.Contains(t, string(web), "uvicorn")
	assert.Contains(t, string(web), "EXPOSE 8000")

	plain, err := RenderContent("dockerfile", renderData(nil))
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "uvicorn")
	assert.Contains(t, string(plain), `CMD ["demo_pkg", "run"]`)
}

func TestRenderLicenseCarriesYearAndAuthor(t *testing.T) {
	out, err := RenderContent("license_mit", renderData(nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Copyright (c) 2026 Jane Doe")
}

func TestRenderChangelogDate(t *testing.T) {
	out, err := RenderContent("changelog", renderData(nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "[0.1.0] - 2026-03-14")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := RenderContent("nope", renderData(nil))
	require.Error(t, err)
}

func TestRenderTestModuleUnittestBranch(t *testing.T) {
	out, err := RenderContent("test_core", renderData(func(c *config.Config) {
		c.TestFramework = config.TestFrameworkUnittest
	}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "unittest.TestCase")
}

func TestAllBodiesRenderCleanly(t *testing.T) {
	data := renderData(func(c *config.Config) {
		c.Features.WebFramework = true
		c.Features.CLI = true
		c.Features.AI = true
	})
	for _, name := range ContentTemplateNames() {
		_, err := RenderContent(name, data)
		assert.NoError(t, err, "template %s", name)
	}
}
