package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

var (
	packageNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	emailRe       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	semverRe      = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
)

// pythonKeywords are reserved words that cannot be package names in the
// target ecosystem.
var pythonKeywords = map[string]struct{}{
	"and": {}, "as": {}, "assert": {}, "async": {}, "await": {}, "break": {},
	"class": {}, "continue": {}, "def": {}, "del": {}, "elif": {}, "else": {},
	"except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "none": {}, "nonlocal": {},
	"not": {}, "or": {}, "pass": {}, "raise": {}, "return": {}, "try": {},
	"while": {}, "with": {}, "yield": {},
}

// Validate checks every configuration invariant. It returns a fatal
// validation error naming all violated fields; the configuration must
// not be used after a failed validation.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.ProjectName) == "" {
		problems = append(problems, "project_name is required")
	}
	if c.PackageName == "" {
		problems = append(problems, "package_name is required")
	} else if !packageNameRe.MatchString(c.PackageName) {
		problems = append(problems, fmt.Sprintf("package_name %q must be lowercase letters, digits and underscores with no leading digit", c.PackageName))
	} else if _, reserved := pythonKeywords[c.PackageName]; reserved {
		problems = append(problems, fmt.Sprintf("package_name %q is a reserved keyword", c.PackageName))
	}
	if strings.TrimSpace(c.Author) == "" {
		problems = append(problems, "author is required")
	}
	if c.Email == "" {
		problems = append(problems, "email is required")
	} else if !emailRe.MatchString(c.Email) {
		problems = append(problems, fmt.Sprintf("email %q is not a valid address", c.Email))
	}
	if c.Version != "" && !semverRe.MatchString(c.Version) {
		problems = append(problems, fmt.Sprintf("version %q must follow semantic versioning", c.Version))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		problems = append(problems, "output_dir is required")
	}
	switch c.TestFramework {
	case "", TestFrameworkPytest, TestFrameworkUnittest:
	default:
		problems = append(problems, fmt.Sprintf("test_framework %q must be pytest or unittest", c.TestFramework))
	}
	for _, dep := range append(append([]string{}, c.Dependencies...), c.DevDependencies...) {
		if strings.TrimSpace(dep) == "" {
			problems = append(problems, "dependencies must not contain empty entries")
			break
		}
	}

	if len(problems) > 0 {
		return errors.Validation("configuration validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// DerivePackageName turns a project name into a valid package
// identifier: Unicode-folded to ASCII, lowercased, non-identifier runes
// collapsed to underscores, leading digits prefixed.
func DerivePackageName(projectName string) string {
	// Strip diacritics via NFKD decomposition before dropping marks.
	stripper := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripper, projectName)
	if err != nil {
		folded = projectName
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), "_")
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	if name == "" {
		return "generated_pkg"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "pkg_" + name
	}
	return name
}

// OutputPath returns the cleaned absolute-ish output directory.
func (c *Config) OutputPath() string {
	return filepath.Clean(c.OutputDir)
}
