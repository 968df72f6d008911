// Package config defines the generation configuration: a single
// validated record of everything the pipeline needs to produce a
// project. Loaded once from file/env, validated once, then treated as
// read-only by every stage.
package config

// TestFramework enumerates supported test scaffolding flavors.
type TestFramework string

const (
	TestFrameworkPytest   TestFramework = "pytest"
	TestFrameworkUnittest TestFramework = "unittest"
)

// Features holds the boolean flags that gate optional parts of the
// generated project tree.
type Features struct {
	WebFramework  bool `yaml:"web_framework" json:"web_framework"` // FastAPI application scaffold
	CLI           bool `yaml:"cli" json:"cli"`                     // Click command-line scaffold
	Container     bool `yaml:"container" json:"container"`         // Dockerfile, compose, dockerignore
	CI            bool `yaml:"ci" json:"ci"`                       // GitHub Actions workflow
	Git           bool `yaml:"git" json:"git"`                     // initialize a repository after generation
	AI            bool `yaml:"ai" json:"ai"`                       // OpenAI client scaffold
	CreateTests   bool `yaml:"create_tests" json:"create_tests"`   // generated test suite
	RunTests      bool `yaml:"run_tests" json:"run_tests"`         // execute tests via the test-runner provider
	Documentation bool `yaml:"documentation" json:"documentation"` // README/CHANGELOG/docs tree
	RequireGit    bool `yaml:"require_git" json:"require_git"`     // treat version-control capability as mandatory
}

// Enabled resolves a flag by its wire name. Unknown names are false so
// descriptor `when` clauses naming a typo'd flag simply never match.
func (f Features) Enabled(name string) bool {
	switch name {
	case "web_framework":
		return f.WebFramework
	case "cli":
		return f.CLI
	case "container":
		return f.Container
	case "ci":
		return f.CI
	case "git":
		return f.Git
	case "ai":
		return f.AI
	case "create_tests":
		return f.CreateTests
	case "run_tests":
		return f.RunTests
	case "documentation":
		return f.Documentation
	case "require_git":
		return f.RequireGit
	default:
		return false
	}
}

// NotifyConfig configures the optional run-report publisher.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`         // NATS server URL; empty disables publishing
	Subject string `yaml:"subject,omitempty" json:"subject,omitempty"` // defaults to pkgfoundry.runs
}

// Config is the immutable description of what project to generate.
// Mutating it after Validate has succeeded is a programming error;
// stages receive it behind a read-only accessor on the pipeline context.
type Config struct {
	ProjectName string `yaml:"project_name" json:"project_name"`
	// PackageName is derived from ProjectName when empty. Must be a
	// valid Python identifier after derivation.
	PackageName   string        `yaml:"package_name,omitempty" json:"package_name,omitempty"`
	Version       string        `yaml:"version,omitempty" json:"version,omitempty"`
	Author        string        `yaml:"author" json:"author"`
	Email         string        `yaml:"email" json:"email"`
	Description   string        `yaml:"description,omitempty" json:"description,omitempty"`
	License       string        `yaml:"license,omitempty" json:"license,omitempty"`
	PythonRequire string        `yaml:"python_requires,omitempty" json:"python_requires,omitempty"`
	OutputDir     string        `yaml:"output_dir" json:"output_dir"`
	Template      string        `yaml:"template,omitempty" json:"template,omitempty"` // descriptor name; empty selects by features
	TestFramework TestFramework `yaml:"test_framework,omitempty" json:"test_framework,omitempty"`

	Features Features `yaml:"features" json:"features"`

	Dependencies    []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	DevDependencies []string `yaml:"dev_dependencies,omitempty" json:"dev_dependencies,omitempty"`

	Notify NotifyConfig `yaml:"notify,omitempty" json:"notify,omitempty"`

	// Options carries free-form provider-specific settings keyed by
	// capability name (e.g. options.version-control.default_branch).
	Options map[string]map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

// Option returns a provider option value, or the empty string.
func (c *Config) Option(capability, key string) string {
	if c.Options == nil {
		return ""
	}
	return c.Options[capability][key]
}

// DefaultConfig returns the starter configuration written by `init` and
// used as the base before file/env overlays.
func DefaultConfig() *Config {
	return &Config{
		ProjectName:   "example-project",
		Version:       "0.1.0",
		Author:        "Author Name",
		Email:         "author@example.com",
		Description:   "A Python package",
		License:       "MIT",
		PythonRequire: ">=3.9",
		OutputDir:     "./generated",
		TestFramework: TestFrameworkPytest,
		Features: Features{
			CI:            true,
			Container:     true,
			CreateTests:   true,
			Documentation: true,
		},
	}
}
