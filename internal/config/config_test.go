package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
project_name: Demo Project
author: Jane Doe
email: jane@example.com
output_dir: ./out
features:
  web_framework: true
  create_tests: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Demo Project", cfg.ProjectName)
	assert.Equal(t, "demo_project", cfg.PackageName, "package name derived from project name")
	assert.True(t, cfg.Features.WebFramework)
	assert.Equal(t, TestFrameworkPytest, cfg.TestFramework, "default kept when file omits it")
}

func TestLoadJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
  "project_name": "demo",
  "package_name": "demo_pkg",
  "author": "Jane",
  "email": "jane@example.com",
  "output_dir": "./out"
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo_pkg", cfg.PackageName)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeTempConfig(t, "config.ini", "project_name=demo")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
project_name: demo
author: Jane
email: jane@example.com
output_dir: ./out
`)
	t.Setenv("PKGFOUNDRY_PACKAGE_NAME", "env_pkg")
	t.Setenv("PKGFOUNDRY_CONTAINER", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env_pkg", cfg.PackageName)
	assert.True(t, cfg.Features.Container)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := DefaultConfig()
		cfg.PackageName = "demo_pkg"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty package name", func(c *Config) { c.PackageName = "" }, "package_name is required"},
		{"leading digit", func(c *Config) { c.PackageName = "1pkg" }, "no leading digit"},
		{"uppercase", func(c *Config) { c.PackageName = "Demo" }, "lowercase"},
		{"hyphen", func(c *Config) { c.PackageName = "demo-pkg" }, "underscores"},
		{"reserved keyword", func(c *Config) { c.PackageName = "import" }, "reserved keyword"},
		{"bad email", func(c *Config) { c.Email = "not-an-email" }, "valid address"},
		{"bad version", func(c *Config) { c.Version = "1.0" }, "semantic versioning"},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }, "output_dir is required"},
		{"bad framework", func(c *Config) { c.TestFramework = "nose" }, "pytest or unittest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDerivePackageName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Demo Project", "demo_project"},
		{"café-générateur", "cafe_generateur"},
		{"7 wonders", "pkg_7_wonders"},
		{"   ", "generated_pkg"},
		{"already_valid", "already_valid"},
		{"Lots---of...junk!!", "lots_of_junk"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePackageName(tt.in))
		})
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkgfoundry.yaml")

	require.NoError(t, Init(path, false))

	// Second write without force fails.
	err := Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	// Force overwrites.
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example_project", cfg.PackageName)
}
