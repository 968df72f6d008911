package manifest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

func TestAddAndGet(t *testing.T) {
	m := New()

	require.NoError(t, m.Add(Entry{Path: "src/pkg/__init__.py", Content: []byte("x"), Provenance: "base"}))

	e, ok := m.Get("src/pkg/__init__.py")
	require.True(t, ok)
	assert.Equal(t, "base", e.Provenance)
	assert.Equal(t, 1, m.Len())
}

func TestAddDuplicateIsGenerationError(t *testing.T) {
	m := New()
	require.NoError(t, m.Add(Entry{Path: "README.md", Provenance: "base"}))

	err := m.Add(Entry{Path: "README.md", Provenance: "web-api"})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindGeneration))
	assert.Contains(t, err.Error(), "README.md")
}

func TestSupersedeRecordsProvenance(t *testing.T) {
	m := New()
	require.NoError(t, m.Add(Entry{Path: "pyproject.toml", Content: []byte("base"), Provenance: "base"}))

	require.NoError(t, m.Supersede(Entry{Path: "pyproject.toml", Content: []byte("web"), Provenance: "web-api"}))

	e, ok := m.Get("pyproject.toml")
	require.True(t, ok)
	assert.Equal(t, "web-api", e.Provenance)
	assert.Equal(t, []byte("web"), e.Content)
	assert.Equal(t, 1, m.Len(), "supersede must not duplicate the path")
}

func TestSupersedeMissingEntry(t *testing.T) {
	m := New()
	err := m.Supersede(Entry{Path: "missing.txt", Provenance: "web-api"})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindGeneration))
}

func TestPathEscapeRejected(t *testing.T) {
	m := New()
	for _, p := range []string{"", "..", "../etc/passwd", "/abs/path", "a/../../b"} {
		err := m.Add(Entry{Path: p, Provenance: "base"})
		assert.Error(t, err, "path %q must be rejected", p)
	}
}

func TestWalkInsertionOrder(t *testing.T) {
	m := New()
	paths := []string{"b.txt", "a.txt", "c/d.txt"}
	for _, p := range paths {
		require.NoError(t, m.Add(Entry{Path: p, Provenance: "base"}))
	}

	var visited []string
	require.NoError(t, m.Walk(func(e Entry) error {
		visited = append(visited, e.Path)
		return nil
	}))
	assert.Equal(t, paths, visited)
}

func TestConcurrentAddDisjointPaths(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = m.Add(Entry{
					Path:       string(rune('a'+n)) + "/" + string(rune('a'+j%26)) + "_" + string(rune('0'+j/26)) + ".py",
					Provenance: "base",
				})
			}
		}(i)
	}
	wg.Wait()

	assert.Greater(t, m.Len(), 0)
	// Paths are unique after concurrent insertion.
	seen := map[string]bool{}
	for _, p := range m.Paths() {
		assert.False(t, seen[p])
		seen[p] = true
	}
}

func TestSummaries(t *testing.T) {
	m := New()
	require.NoError(t, m.Add(Entry{Path: "README.md", Content: []byte("hello"), Provenance: "documentation"}))

	s := m.Summaries()
	require.Len(t, s, 1)
	assert.Equal(t, Summary{Path: "README.md", Size: 5, Provenance: "documentation"}, s[0])
}
