package templates

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

// Store holds the known descriptors: builtins seeded at construction
// plus any loaded from a descriptor directory. A directory descriptor
// with a builtin's name replaces the builtin.
type Store struct {
	mu     sync.RWMutex
	byName map[string]*Descriptor
	order  []string
}

// NewStore creates a store seeded with the builtin descriptors.
func NewStore() *Store {
	s := &Store{byName: make(map[string]*Descriptor)}
	for _, d := range builtinDescriptors() {
		s.register(d)
	}
	return s
}

// Register validates and adds a descriptor, replacing any existing
// descriptor with the same name.
func (s *Store) Register(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.register(d)
	return nil
}

func (s *Store) register(d *Descriptor) {
	if _, exists := s.byName[d.Name]; !exists {
		s.order = append(s.order, d.Name)
	}
	s.byName[d.Name] = d
}

// LoadDir parses every .yaml/.yml file in dir as a descriptor. A
// missing directory is not an error; a broken descriptor is.
func (s *Store) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.IO(err, "read descriptor directory")
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return errors.IO(err, "read descriptor file").WithContext("file", entry.Name())
		}
		d, err := ParseDescriptor(data)
		if err != nil {
			return errors.Wrap(err, errors.KindValidation, errors.SeverityFatal, "load descriptor").
				WithContext("file", entry.Name())
		}
		if err := s.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the named descriptor.
func (s *Store) Get(name string) (*Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byName[name]
	return d, ok
}

// Names returns all descriptor names sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns descriptors in registration order.
func (s *Store) All() []*Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Descriptor, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Select resolves the descriptor set for a configuration: the base
// descriptor first, then every feature descriptor whose flags are all
// enabled, in registration order. A non-empty cfg.Template pins one
// named descriptor instead of feature selection; base still applies
// first unless the named descriptor is itself base.
func (s *Store) Select(cfg *config.Config) ([]*Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	base, ok := s.byName["base"]
	if !ok {
		return nil, errors.New(errors.KindInternal, errors.SeverityFatal, "base descriptor is not registered")
	}

	if cfg.Template != "" {
		named, ok := s.byName[cfg.Template]
		if !ok {
			return nil, errors.Validation("unknown template").
				WithContext("template", cfg.Template)
		}
		if named.Name == base.Name {
			return []*Descriptor{base}, nil
		}
		return []*Descriptor{base, named}, nil
	}

	selected := []*Descriptor{base}
	for _, name := range s.order {
		d := s.byName[name]
		if d.Name == base.Name || len(d.Features) == 0 {
			continue
		}
		if featuresEnabled(d.Features, cfg.Features) {
			selected = append(selected, d)
		}
	}
	return selected, nil
}

func featuresEnabled(required []string, flags config.Features) bool {
	for _, name := range required {
		if !flags.Enabled(name) {
			return false
		}
	}
	return true
}
