package templates

import (
	"regexp"
	"time"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/manifest"
)

// Engine expands a selected descriptor set into a file manifest. The
// clock is injected so two runs over the same inputs produce identical
// output when the clock is pinned.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine using the given clock; nil means wall time.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Expansion is the result of one expansion run: the manifest plus the
// merged metadata the later stages need.
type Expansion struct {
	Manifest *manifest.Manifest
	Data     RenderData

	// Descriptors lists the applied descriptor names in order.
	Descriptors []string

	// Dependencies and DevDependencies are the merged, deduplicated
	// runtime and development requirement lists.
	Dependencies    []string
	DevDependencies []string
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand applies the descriptors in order against the configuration.
// The first descriptor owns every path it contributes; later descriptors
// supersede on conflict, recording both provenances in the manifest.
func (e *Engine) Expand(cfg *config.Config, descriptors []*Descriptor) (*Expansion, error) {
	if len(descriptors) == 0 {
		return nil, errors.Generation("no descriptors selected for expansion")
	}

	deps := mergeRequirements(descriptors, cfg.Dependencies, false)
	devDeps := mergeRequirements(descriptors, cfg.DevDependencies, true)
	data := NewRenderData(cfg, deps, devDeps, e.now())

	vars := map[string]string{
		"package_name": cfg.PackageName,
		"project_name": cfg.ProjectName,
	}

	m := manifest.New()
	out := &Expansion{
		Manifest:        m,
		Data:            data,
		Dependencies:    deps,
		DevDependencies: devDeps,
	}

	for i, d := range descriptors {
		out.Descriptors = append(out.Descriptors, d.Name)
		supersede := i > 0
		if err := e.expandNode(d, d.Structure, "", vars, cfg.Features, data, m, supersede); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Engine) expandNode(d *Descriptor, n *Node, at string, vars map[string]string,
	flags config.Features, data RenderData, m *manifest.Manifest, supersede bool) error {

	if n.IsDir() {
		for _, name := range n.ChildNames() {
			resolved, err := resolveSegment(d.Name, at, name, vars)
			if err != nil {
				return err
			}
			childPath := resolved
			if at != "" {
				childPath = at + "/" + resolved
			}
			if err := e.expandNode(d, n.Children[name], childPath, vars, flags, data, m, supersede); err != nil {
				return err
			}
		}
		return nil
	}

	spec := n.File
	for _, flag := range spec.When {
		if !flags.Enabled(flag) {
			return nil
		}
	}

	var content []byte
	if spec.Template != "" {
		rendered, err := RenderContent(spec.Template, data)
		if err != nil {
			return errors.Wrap(err, errors.KindGeneration, errors.SeverityFatal, "expand structure leaf").
				WithContext("descriptor", d.Name).
				WithContext("path", at)
		}
		content = rendered
	} else {
		content = []byte(spec.Literal)
	}

	entry := manifest.Entry{
		Path:       at,
		Content:    content,
		Provenance: d.Name,
		Override:   spec.Override,
		Executable: spec.Executable,
	}
	if supersede && m.Has(at) {
		return m.Supersede(entry)
	}
	return m.Add(entry)
}

// resolveSegment substitutes {placeholder} variables in one path
// segment. An unresolvable placeholder is fatal and names the exact
// location, never a silently literal directory name.
func resolveSegment(descriptor, at, segment string, vars map[string]string) (string, error) {
	var unresolved string
	resolved := placeholderRe.ReplaceAllStringFunc(segment, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := vars[name]; ok && v != "" {
			return v
		}
		unresolved = name
		return match
	})
	if unresolved != "" {
		return "", errors.Generation("unresolvable placeholder in structure path").
			WithContext("descriptor", descriptor).
			WithContext("placeholder", unresolved).
			WithContext("segment", segment).
			WithContext("under", at)
	}
	return resolved, nil
}

// mergeRequirements concatenates descriptor requirement lists with the
// configuration extras, deduplicated in first-seen order.
func mergeRequirements(descriptors []*Descriptor, extra []string, dev bool) []string {
	seen := make(map[string]struct{})
	var out []string
	appendAll := func(items []string) {
		for _, item := range items {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	for _, d := range descriptors {
		if dev {
			appendAll(d.DevDependencies)
		} else {
			appendAll(d.Dependencies)
		}
	}
	appendAll(extra)
	return out
}
