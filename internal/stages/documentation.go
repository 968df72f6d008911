package stages

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/pkgfoundry/internal/manifest"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
)

// Documentation verifies every generated markdown document renders and
// adds a structure overview describing the produced tree. Problems here
// degrade the run; the project itself is already on disk.
type Documentation struct {
	md goldmark.Markdown
}

// NewDocumentation creates the stage with a default goldmark parser.
func NewDocumentation() *Documentation {
	return &Documentation{md: goldmark.New()}
}

func (d *Documentation) Name() string { return "documentation" }

func (d *Documentation) Precondition(run *pipeline.Run) (bool, string) {
	if !run.Config().Features.Documentation {
		return false, "documentation disabled"
	}
	return true, ""
}

func (d *Documentation) Execute(_ context.Context, run *pipeline.Run) error {
	exp := run.Expansion()
	if exp == nil {
		return nil
	}

	var broken []string
	_ = exp.Manifest.Walk(func(e manifest.Entry) error {
		if !strings.HasSuffix(e.Path, ".md") {
			return nil
		}
		if err := d.md.Convert(e.Content, io.Discard); err != nil {
			broken = append(broken, fmt.Sprintf("%s: %v", e.Path, err))
		}
		return nil
	})
	for _, b := range broken {
		run.AddWarning(d.Name(), "markdown does not render: "+b)
	}

	overview := structureOverview(run.Config().ProjectName, exp.Manifest.Summaries())
	if err := d.md.Convert([]byte(overview), io.Discard); err != nil {
		run.AddWarning(d.Name(), fmt.Sprintf("structure overview does not render: %v", err))
		return nil
	}
	entry := manifest.Entry{
		Path:       "docs/STRUCTURE.md",
		Content:    []byte(overview),
		Provenance: d.Name(),
	}
	if exp.Manifest.Has(entry.Path) {
		if err := exp.Manifest.Supersede(entry); err != nil {
			return err
		}
	} else if err := exp.Manifest.Add(entry); err != nil {
		return err
	}
	return writeEntry(run, d.Name(), run.OutputDir(), entry)
}

// Compensate removes the overview file if this stage wrote it.
func (d *Documentation) Compensate(_ context.Context, run *pipeline.Run) error {
	removeWritten(run, d.Name())
	return nil
}

// structureOverview renders the generated tree as a markdown listing
// grouped by provenance.
func structureOverview(project string, files []manifest.Summary) string {
	byProvenance := make(map[string][]string)
	for _, f := range files {
		byProvenance[f.Provenance] = append(byProvenance[f.Provenance], f.Path)
	}
	provenances := make([]string, 0, len(byProvenance))
	for p := range byProvenance {
		provenances = append(provenances, p)
	}
	sort.Strings(provenances)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s structure\n\n", project)
	b.WriteString("Generated file layout by origin.\n")
	for _, p := range provenances {
		fmt.Fprintf(&b, "\n## %s\n\n", p)
		paths := byProvenance[p]
		sort.Strings(paths)
		for _, path := range paths {
			fmt.Fprintf(&b, "- `%s`\n", path)
		}
	}
	return b.String()
}
