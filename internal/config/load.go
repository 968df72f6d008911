package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "PKGFOUNDRY_"

// Load reads the configuration from path, overlays PKGFOUNDRY_*
// environment variables and validates the result. YAML and JSON files
// are supported; the extension decides the decoder.
func Load(path string) (*Config, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load(".env", ".env.local")

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path is user-supplied by design
		if err != nil {
			return nil, errors.Config(err, "read configuration file").WithContext("path", path)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Config(err, "parse YAML configuration").WithContext("path", path)
			}
		case ".json":
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, errors.Config(err, "parse JSON configuration").WithContext("path", path)
			}
		default:
			return nil, errors.Config(nil, "unsupported configuration format").
				WithContext("path", path).
				WithContext("extension", filepath.Ext(path))
		}
	}

	applyEnvOverrides(cfg)

	if cfg.PackageName == "" {
		cfg.PackageName = DerivePackageName(cfg.ProjectName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides maps PKGFOUNDRY_* variables onto config fields.
// Environment always wins over file values.
func applyEnvOverrides(cfg *Config) {
	if v := envValue("PROJECT_NAME"); v != "" {
		cfg.ProjectName = v
	}
	if v := envValue("PACKAGE_NAME"); v != "" {
		cfg.PackageName = v
	}
	if v := envValue("VERSION"); v != "" {
		cfg.Version = v
	}
	if v := envValue("AUTHOR"); v != "" {
		cfg.Author = v
	}
	if v := envValue("EMAIL"); v != "" {
		cfg.Email = v
	}
	if v := envValue("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := envValue("TEMPLATE"); v != "" {
		cfg.Template = v
	}
	if v := envValue("TEST_FRAMEWORK"); v != "" {
		cfg.TestFramework = TestFramework(v)
	}

	boolOverride("WEB_FRAMEWORK", &cfg.Features.WebFramework)
	boolOverride("CLI", &cfg.Features.CLI)
	boolOverride("CONTAINER", &cfg.Features.Container)
	boolOverride("CI", &cfg.Features.CI)
	boolOverride("GIT", &cfg.Features.Git)
	boolOverride("AI", &cfg.Features.AI)
	boolOverride("CREATE_TESTS", &cfg.Features.CreateTests)
	boolOverride("RUN_TESTS", &cfg.Features.RunTests)
	boolOverride("DOCUMENTATION", &cfg.Features.Documentation)
	boolOverride("REQUIRE_GIT", &cfg.Features.RequireGit)
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func boolOverride(key string, target *bool) {
	v := envValue(key)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*target = b
	}
}

// Init writes a starter configuration file. Existing files are only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Config(nil, "configuration file already exists (use --force to overwrite)").
			WithContext("path", path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return errors.Config(err, "marshal starter configuration")
	}

	header := "# pkgfoundry configuration\n# See `pkgfoundry templates` for available project flavors.\n"
	if err := os.WriteFile(path, []byte(header+string(data)), 0o644); err != nil {
		return errors.IO(err, fmt.Sprintf("write configuration file %s", path))
	}
	return nil
}
