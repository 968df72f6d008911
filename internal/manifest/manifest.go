// Package manifest holds the in-memory file manifest produced by
// template expansion: every relative output path with its content and
// provenance, accumulated before anything touches the disk.
package manifest

import (
	"fmt"
	"path"
	"sort"
	"sync"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

// Entry is one file scheduled for materialization.
type Entry struct {
	// Path is the final relative output path, slash-separated.
	Path string `json:"path"`

	// Content is the generated file body.
	Content []byte `json:"-"`

	// Provenance names the descriptor or stage that produced the entry.
	Provenance string `json:"provenance"`

	// Override marks an entry allowed to replace an existing file on
	// disk during materialization.
	Override bool `json:"override,omitempty"`

	// Executable marks entries written with the executable bit set.
	Executable bool `json:"executable,omitempty"`

	// SupersededBy records the provenance that replaced this entry's
	// original content, so base-versus-feature conflicts leave a trace.
	SupersededBy string `json:"superseded_by,omitempty"`
}

// Summary is the report-facing view of one entry.
type Summary struct {
	Path       string `json:"path"`
	Size       int    `json:"size"`
	Provenance string `json:"provenance"`
}

// Manifest is the ordered collection of entries for one generation run.
// Later stages may only add paths; replacing an entry requires the
// explicit Supersede path which records provenance of both sides.
// Mutation is guarded by a coarse lock so a stage may fan rendering out
// across goroutines.
type Manifest struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []string
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{entries: make(map[string]*Entry)}
}

// Add appends a new entry. Adding a path that already exists is a fatal
// generation error; conflicting descriptors must go through Supersede.
func (m *Manifest) Add(entry Entry) error {
	cleaned, err := cleanPath(entry.Path)
	if err != nil {
		return err
	}
	entry.Path = cleaned

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[entry.Path]; ok {
		return errors.Generation("manifest path conflict").
			WithContext("path", entry.Path).
			WithContext("existing_provenance", existing.Provenance).
			WithContext("new_provenance", entry.Provenance)
	}

	e := entry
	m.entries[e.Path] = &e
	m.order = append(m.order, e.Path)
	return nil
}

// Supersede replaces the content of an existing entry, recording the
// new provenance on the winner and marking the loser as superseded.
// Used for the feature-over-base descriptor tie-break; never silent.
func (m *Manifest) Supersede(entry Entry) error {
	cleaned, err := cleanPath(entry.Path)
	if err != nil {
		return err
	}
	entry.Path = cleaned

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.entries[entry.Path]
	if !ok {
		return errors.Generation("cannot supersede missing manifest entry").
			WithContext("path", entry.Path)
	}

	e := entry
	e.SupersededBy = ""
	existing.SupersededBy = e.Provenance
	// The superseded entry stays reachable for provenance reporting but
	// the path now resolves to the winner.
	m.entries[e.Path] = &e
	return nil
}

// Has reports whether the manifest contains the path.
func (m *Manifest) Has(p string) bool {
	cleaned, err := cleanPath(p)
	if err != nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[cleaned]
	return ok
}

// Get returns a copy of the entry for the path.
func (m *Manifest) Get(p string) (Entry, bool) {
	cleaned, err := cleanPath(p)
	if err != nil {
		return Entry{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[cleaned]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Walk visits entries in insertion order. The callback receives a copy;
// returning an error stops the walk. Entries are streamed one at a time
// so callers never need the whole content set at once.
func (m *Manifest) Walk(fn func(Entry) error) error {
	m.mu.Lock()
	order := make([]string, len(m.order))
	copy(order, m.order)
	m.mu.Unlock()

	for _, p := range order {
		m.mu.Lock()
		e, ok := m.entries[p]
		var cp Entry
		if ok {
			cp = *e
		}
		m.mu.Unlock()
		if !ok {
			continue
		}
		if err := fn(cp); err != nil {
			return err
		}
	}
	return nil
}

// Paths returns all entry paths sorted lexicographically.
func (m *Manifest) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for p := range m.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Summaries returns the report view of all entries in insertion order.
func (m *Manifest) Summaries() []Summary {
	out := make([]Summary, 0, m.Len())
	_ = m.Walk(func(e Entry) error {
		out = append(out, Summary{Path: e.Path, Size: len(e.Content), Provenance: e.Provenance})
		return nil
	})
	return out
}

// cleanPath normalizes and rejects paths escaping the output root.
func cleanPath(p string) (string, error) {
	if p == "" {
		return "", errors.Generation("manifest entry path is empty")
	}
	cleaned := path.Clean(p)
	if path.IsAbs(cleaned) || cleaned == ".." || cleaned == "." ||
		len(cleaned) >= 3 && cleaned[:3] == "../" {
		return "", errors.Generation(fmt.Sprintf("manifest entry path %q escapes the output directory", p))
	}
	return cleaned, nil
}
