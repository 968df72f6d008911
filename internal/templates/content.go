package templates

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

// RenderData is the data object every content template is executed
// against. Built once per run from the configuration and the merged
// descriptor metadata.
type RenderData struct {
	ProjectName     string
	PackageName     string
	Version         string
	Author          string
	Email           string
	Description     string
	License         string
	PythonRequire   string
	TestFramework   string
	Dependencies    []string
	DevDependencies []string
	Features        config.Features
	Date            string
	Year            int
}

// NewRenderData assembles render data from the configuration and merged
// dependency lists. The clock is injected so expansion stays
// deterministic under test.
func NewRenderData(cfg *config.Config, deps, devDeps []string, now time.Time) RenderData {
	framework := string(cfg.TestFramework)
	if framework == "" {
		framework = string(config.TestFrameworkPytest)
	}
	description := cfg.Description
	if description == "" {
		description = cfg.ProjectName
	}
	return RenderData{
		ProjectName:     cfg.ProjectName,
		PackageName:     cfg.PackageName,
		Version:         orDefault(cfg.Version, "0.1.0"),
		Author:          cfg.Author,
		Email:           cfg.Email,
		Description:     description,
		License:         orDefault(cfg.License, "MIT"),
		PythonRequire:   orDefault(cfg.PythonRequire, ">=3.9"),
		TestFramework:   framework,
		Dependencies:    deps,
		DevDependencies: devDeps,
		Features:        cfg.Features,
		Date:            now.UTC().Format("2006-01-02"),
		Year:            now.UTC().Year(),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ClassName converts a snake_case package name into the CamelCase class
// name used inside generated Python modules.
func ClassName(pkg string) string {
	parts := strings.Split(pkg, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if b.Len() == 0 {
		return "App"
	}
	return b.String()
}

// contentTemplates maps template names to parsed templates. Populated
// from the bodies table at init; a malformed builtin body is a
// programming error and panics at startup rather than mid-run.
var contentTemplates = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{
		"classname": ClassName,
	}
	for name, body := range contentBodies {
		tpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(body)
		if err != nil {
			panic(fmt.Sprintf("builtin content template %s: %v", name, err))
		}
		contentTemplates[name] = tpl
	}
}

// HasContentTemplate reports whether a named content template exists.
func HasContentTemplate(name string) bool {
	_, ok := contentTemplates[name]
	return ok
}

// ContentTemplateNames lists registered template names, sorted.
func ContentTemplateNames() []string {
	names := make([]string, 0, len(contentTemplates))
	for name := range contentTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderContent executes the named content template against data.
// Unknown names and render failures are fatal generation errors carrying
// the template name.
func RenderContent(name string, data RenderData) ([]byte, error) {
	tpl, ok := contentTemplates[name]
	if !ok {
		return nil, errors.Generation("unknown content template").WithContext("template", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, errors.KindGeneration, errors.SeverityFatal, "render content template").
			WithContext("template", name)
	}
	return buf.Bytes(), nil
}
