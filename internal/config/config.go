// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads sirseer-notes settings from layered sources.
//
// Sources, lowest precedence first:
//  1. Built-in defaults
//  2. YAML configuration file
//  3. A .env file in the working directory
//  4. Environment variables
//  5. Command-line flags (applied by the caller)
//
// A .env file never overrides a variable already present in the
// environment, which is what places it below the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/sirseer-notes/internal/version"
)

// MaxPageSize is the largest page GitHub serves for a connection.
const MaxPageSize = 100

// EnvOverrides are the environment variables read on top of the file.
// Unset variables leave the file or default value untouched.
type EnvOverrides struct {
	APIEndpoint        string   `envconfig:"GITHUB_API_ENDPOINT"`
	GraphQLEndpoint    string   `envconfig:"GITHUB_GRAPHQL_ENDPOINT"`
	Ref                string   `envconfig:"SIRSEER_REF"`
	TagPrefix          string   `envconfig:"SIRSEER_TAG_PREFIX"`
	VersionIncrement   string   `envconfig:"SIRSEER_VERSION_INCREMENT"`
	ChangeTemplate     string   `envconfig:"SIRSEER_CHANGE_TEMPLATE"`
	IncludePaths       []string `envconfig:"SIRSEER_INCLUDE_PATHS"`
	IncludePreReleases *bool    `envconfig:"SIRSEER_INCLUDE_PRE_RELEASES"`
	PageSize           *int     `envconfig:"SIRSEER_PAGE_SIZE"`
	OutputFormat       string   `envconfig:"SIRSEER_OUTPUT_FORMAT"`
	MetadataDir        string   `envconfig:"SIRSEER_METADATA_DIR"`
	MaxRetries         *int     `envconfig:"SIRSEER_MAX_RETRIES"`
	LogLevel           string   `envconfig:"SIRSEER_LOG_LEVEL"`
	LogFormat          string   `envconfig:"SIRSEER_LOG_FORMAT"`
}

// LoadConfig builds the configuration from defaults, a YAML file, a .env
// file and the environment. If configPath is empty the first file found
// in these locations is used:
//   - .sirseer-notes.yaml
//   - .sirseer-notes.yml
//   - ~/.sirseer/notes.yaml
//   - ~/.sirseer/notes.yml
//
// No file at all is not an error. An explicit configPath that cannot be
// read is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := LoadDotEnv(""); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Defaults.MetadataDir = expandPath(cfg.Defaults.MetadataDir)
	return cfg, nil
}

func defaultPaths() []string {
	home := homeDir()
	return []string{
		".sirseer-notes.yaml",
		".sirseer-notes.yml",
		filepath.Join(home, ".sirseer", "notes.yaml"),
		filepath.Join(home, ".sirseer", "notes.yml"),
	}
}

// LoadDotEnv loads variables from a .env file, ".env" when path is empty.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Repositories == nil {
		cfg.Repositories = make(map[string]RepoConfig)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	var env EnvOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}

	setString(&cfg.GitHub.APIEndpoint, env.APIEndpoint)
	setString(&cfg.GitHub.GraphQLEndpoint, env.GraphQLEndpoint)
	setString(&cfg.Defaults.Ref, env.Ref)
	setString(&cfg.Defaults.TagPrefix, env.TagPrefix)
	setString(&cfg.Defaults.VersionIncrement, env.VersionIncrement)
	setString(&cfg.Defaults.ChangeTemplate, env.ChangeTemplate)
	setString(&cfg.Defaults.OutputFormat, env.OutputFormat)
	setString(&cfg.Defaults.MetadataDir, env.MetadataDir)
	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)

	if len(env.IncludePaths) > 0 {
		cfg.Defaults.IncludePaths = env.IncludePaths
	}
	if env.IncludePreReleases != nil {
		cfg.Defaults.IncludePreReleases = *env.IncludePreReleases
	}
	if env.PageSize != nil {
		cfg.Defaults.PageSize = *env.PageSize
	}
	if env.MaxRetries != nil {
		cfg.Retry.MaxRetries = *env.MaxRetries
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

// ForRepository returns the defaults with the overrides configured for
// repo ("owner/repo") applied.
func (c *Config) ForRepository(repo string) DefaultsConfig {
	d := c.Defaults
	d.IncludePaths = append([]string(nil), c.Defaults.IncludePaths...)

	r, ok := c.Repositories[repo]
	if !ok {
		return d
	}
	setString(&d.Ref, r.Ref)
	setString(&d.TagPrefix, r.TagPrefix)
	setString(&d.VersionIncrement, r.VersionIncrement)
	setString(&d.ChangeTemplate, r.ChangeTemplate)
	if len(r.IncludePaths) > 0 {
		d.IncludePaths = append([]string(nil), r.IncludePaths...)
	}
	if r.IncludePreReleases != nil {
		d.IncludePreReleases = *r.IncludePreReleases
	}
	if r.PageSize > 0 {
		d.PageSize = r.PageSize
	}
	return d
}

// Token returns the API token from the configured environment variable.
func (c *Config) Token() string {
	return os.Getenv(c.GitHub.TokenEnv)
}

// Validate checks the loaded values, including every repository override,
// so bad settings are reported before any request is made.
func (c *Config) Validate() error {
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if err := validateSettings("defaults", c.Defaults); err != nil {
		return err
	}
	for repo := range c.Repositories {
		if err := validateSettings(repo, c.ForRepository(repo)); err != nil {
			return err
		}
	}

	switch c.Log.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown log format %q (want pretty or json)", c.Log.Format)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got: %d", c.Retry.MaxRetries)
	}
	return nil
}

func validateSettings(scope string, d DefaultsConfig) error {
	if d.PageSize <= 0 {
		return fmt.Errorf("%s: page size must be positive, got: %d", scope, d.PageSize)
	}
	if d.PageSize > MaxPageSize {
		return fmt.Errorf("%s: page size %d exceeds GitHub API limit of %d", scope, d.PageSize, MaxPageSize)
	}
	if d.Ref == "" {
		return fmt.Errorf("%s: ref cannot be empty", scope)
	}
	if _, err := version.ParseIncrement(d.VersionIncrement); err != nil {
		return fmt.Errorf("%s: %w", scope, err)
	}
	switch d.OutputFormat {
	case "ndjson", "json":
	default:
		return fmt.Errorf("%s: unknown output format %q (want ndjson or json)", scope, d.OutputFormat)
	}
	return nil
}

// Validate checks effective settings, typically after flags were merged.
func (d DefaultsConfig) Validate() error {
	return validateSettings("settings", d)
}
