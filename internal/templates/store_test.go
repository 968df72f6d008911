package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

func TestSelectBaseOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Features = config.Features{}

	selected, err := NewStore().Select(cfg)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "base", selected[0].Name)
}

func TestSelectByFeatures(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Features = config.Features{WebFramework: true, CLI: true}

	selected, err := NewStore().Select(cfg)
	require.NoError(t, err)

	var names []string
	for _, d := range selected {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"base", "cli", "web-api"}, names, "base first, then registration order")
}

func TestSelectPinnedTemplate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Features = config.Features{WebFramework: true}
	cfg.Template = "cli"

	selected, err := NewStore().Select(cfg)
	require.NoError(t, err)

	var names []string
	for _, d := range selected {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"base", "cli"}, names)
}

func TestSelectUnknownTemplate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Template = "nope"

	_, err := NewStore().Select(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestLoadDirReplacesBuiltin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(`
name: base
structure:
  ONLY.md: "custom base"
`), 0o644))

	store := NewStore()
	require.NoError(t, store.LoadDir(dir))

	d, ok := store.Get("base")
	require.True(t, ok)
	assert.Equal(t, []string{"ONLY.md"}, d.Structure.ChildNames())
}

func TestLoadDirMissingIsNotError(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.LoadDir(filepath.Join(t.TempDir(), "absent")))
}

func TestLoadDirBrokenDescriptor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("structure:\n  a.md: x\n"), 0o644))

	err := NewStore().LoadDir(dir)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}
