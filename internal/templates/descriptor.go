// Package templates provides the declarative project descriptors and the
// expansion engine that turns one descriptor set plus a configuration
// into a file manifest. Descriptors are data, not code: a named
// dependency list plus a recursive structure tree whose leaves reference
// content templates. Structural problems are caught when a descriptor is
// loaded, never during a generation run.
package templates

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

// Descriptor is one named project flavor: metadata describing when it
// applies plus the structure tree it contributes.
type Descriptor struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	Features    []string `yaml:"features,omitempty"`

	// Dependencies and DevDependencies are merged across the selected
	// descriptor set before pyproject rendering.
	Dependencies    []string `yaml:"dependencies,omitempty"`
	DevDependencies []string `yaml:"dev_dependencies,omitempty"`

	Structure *Node `yaml:"structure"`
}

// FileSpec is a leaf content-generation instruction.
type FileSpec struct {
	// Template names a registered content template. Empty with empty
	// Literal produces an empty file.
	Template string `yaml:"template,omitempty"`

	// Literal is verbatim file content; mutually exclusive with Template.
	Literal string `yaml:"literal,omitempty"`

	// When gates inclusion on feature flags; every named flag must be
	// true for the file to appear.
	When []string `yaml:"when,omitempty"`

	// Override allows the materializer to replace an existing on-disk file.
	Override bool `yaml:"override,omitempty"`

	// Executable sets the executable bit on the written file.
	Executable bool `yaml:"executable,omitempty"`
}

// Node is one element of the structure tree: either a directory with
// named children or a file with a FileSpec.
//
// In YAML a scalar value is literal file content, a mapping whose keys
// are all FileSpec fields is a file instruction, and any other mapping
// is a directory. Directory names may carry {package_name}-style
// placeholders resolved at expansion time.
type Node struct {
	File     *FileSpec
	Children map[string]*Node
	// keys preserves YAML document order for deterministic traversal.
	keys []string
}

// fileSpecKeys is the closed key set that identifies a mapping as a
// FileSpec rather than a directory.
var fileSpecKeys = map[string]struct{}{
	"template": {}, "literal": {}, "when": {}, "override": {}, "executable": {},
}

// UnmarshalYAML implements the scalar/filespec/directory discrimination.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var literal string
		if err := value.Decode(&literal); err != nil {
			return err
		}
		n.File = &FileSpec{Literal: literal}
		return nil
	case yaml.MappingNode:
		if isFileSpecMapping(value) {
			var spec FileSpec
			if err := value.Decode(&spec); err != nil {
				return err
			}
			n.File = &spec
			return nil
		}
		n.Children = make(map[string]*Node, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			var key string
			if err := value.Content[i].Decode(&key); err != nil {
				return err
			}
			child := &Node{}
			if err := value.Content[i+1].Decode(child); err != nil {
				return fmt.Errorf("node %q: %w", key, err)
			}
			if _, dup := n.Children[key]; dup {
				return fmt.Errorf("duplicate node name %q", key)
			}
			n.Children[key] = child
			n.keys = append(n.keys, key)
		}
		return nil
	default:
		return fmt.Errorf("structure node must be a mapping or scalar, got %v", value.Kind)
	}
}

func isFileSpecMapping(value *yaml.Node) bool {
	if len(value.Content) == 0 {
		return false
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if _, ok := fileSpecKeys[value.Content[i].Value]; !ok {
			return false
		}
	}
	return true
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool { return n.Children != nil }

// ChildNames returns child names in document order. Builtin descriptors
// constructed in Go fall back to map iteration order being fixed by
// sorted insertion (see dir helper).
func (n *Node) ChildNames() []string {
	if len(n.keys) == len(n.Children) {
		return n.keys
	}
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var segmentNameRe = regexp.MustCompile(`^[A-Za-z0-9._\-{}]+$`)

// Validate checks a descriptor's structural invariants: a name, a
// structure tree, every leaf carrying exactly one content source, and
// every referenced template registered. Called at load time so broken
// descriptors never reach a generation run.
func (d *Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.Validation("descriptor name is required")
	}
	if d.Structure == nil || !d.Structure.IsDir() {
		return errors.Validation("descriptor structure must be a directory tree").
			WithContext("descriptor", d.Name)
	}
	return d.validateNode(d.Structure, "")
}

func (d *Descriptor) validateNode(n *Node, at string) error {
	if n.IsDir() {
		for _, name := range n.ChildNames() {
			if !segmentNameRe.MatchString(name) {
				return errors.Validation("invalid structure segment name").
					WithContext("descriptor", d.Name).
					WithContext("segment", name).
					WithContext("under", at)
			}
			child := n.Children[name]
			childPath := name
			if at != "" {
				childPath = at + "/" + name
			}
			if err := d.validateNode(child, childPath); err != nil {
				return err
			}
		}
		return nil
	}

	spec := n.File
	if spec == nil {
		return errors.Validation("structure leaf has neither content nor children").
			WithContext("descriptor", d.Name).
			WithContext("path", at)
	}
	if spec.Template != "" && spec.Literal != "" {
		return errors.Validation("structure leaf declares both template and literal content").
			WithContext("descriptor", d.Name).
			WithContext("path", at)
	}
	if spec.Template != "" && !HasContentTemplate(spec.Template) {
		return errors.Validation("structure leaf references unknown content template").
			WithContext("descriptor", d.Name).
			WithContext("path", at).
			WithContext("template", spec.Template)
	}
	return nil
}

// ParseDescriptor parses and validates a YAML descriptor document.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, errors.SeverityFatal, "parse descriptor")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
