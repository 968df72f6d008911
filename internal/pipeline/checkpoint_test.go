package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

func TestCheckpointRoundTrip(t *testing.T) {
	run := newTestRun()
	run.AddWarning("generation", "output directory is not empty")
	run.RecordWritten("generation", "/tmp/out/README.md")

	path := filepath.Join(t.TempDir(), "run.checkpoint.json")
	require.NoError(t, run.SaveCheckpoint(path))

	cp, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, run.ID(), cp.RunID)
	assert.Equal(t, "example_project", cp.Config.PackageName)
	assert.Equal(t, []string{"generation: output directory is not empty"}, cp.Warnings)
	assert.Equal(t, []string{"/tmp/out/README.md"}, cp.Written)
}

func TestLoadCheckpointMissingFile(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIO))
}
