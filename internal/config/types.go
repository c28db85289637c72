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

package config

import (
	"time"

	"github.com/sirseerhq/sirseer-notes/internal/history"
)

// Config is the complete configuration for sirseer-notes.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
	Retry        RetryConfig           `yaml:"retry"`
	Log          LogConfig             `yaml:"log"`
}

// GitHubConfig holds the API endpoints and the name of the environment
// variable carrying the token. Point both endpoints at a GitHub Enterprise
// host to collect from it.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// DefaultsConfig holds the collection settings applied to every repository
// unless a repository entry or a flag overrides them.
type DefaultsConfig struct {
	Ref                string   `yaml:"ref"`
	TagPrefix          string   `yaml:"tag_prefix"`
	VersionIncrement   string   `yaml:"version_increment"`
	ChangeTemplate     string   `yaml:"change_template"`
	IncludePaths       []string `yaml:"include_paths"`
	IncludePreReleases bool     `yaml:"include_pre_releases"`
	PageSize           int      `yaml:"page_size"`
	OutputFormat       string   `yaml:"output_format"`
	MetadataDir        string   `yaml:"metadata_dir"`
}

// RepoConfig overrides DefaultsConfig for one "owner/repo". Zero values
// leave the default in place.
type RepoConfig struct {
	Ref                string   `yaml:"ref"`
	TagPrefix          string   `yaml:"tag_prefix"`
	VersionIncrement   string   `yaml:"version_increment"`
	ChangeTemplate     string   `yaml:"change_template"`
	IncludePaths       []string `yaml:"include_paths"`
	IncludePreReleases *bool    `yaml:"include_pre_releases"`
	PageSize           int      `yaml:"page_size"`
}

// RetryConfig controls how transient API failures are retried.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// LogConfig selects the log level and the pretty or json format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in configuration for github.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			Ref:              "HEAD",
			VersionIncrement: "patch",
			ChangeTemplate:   history.DefaultChangeTemplate,
			PageSize:         100,
			OutputFormat:     "ndjson",
		},
		Repositories: make(map[string]RepoConfig),
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
	}
}
