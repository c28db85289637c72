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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-notes/internal/config"
	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
	"github.com/sirseerhq/sirseer-notes/internal/github"
	"github.com/sirseerhq/sirseer-notes/internal/log"
)

// app is what every command needs once flags are parsed: the target
// repository, its effective settings and the clients built from them.
type app struct {
	owner    string
	repo     string
	cfg      *config.Config
	settings config.DefaultsConfig
	token    string
	logger   *log.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// newApp loads configuration for repoArg and layers cmd's flags on top.
func newApp(cmd *cobra.Command, repoArg string) (*app, error) {
	owner, repo, err := parseRepository(repoArg)
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	settings := config.MergeFlags(cfg.ForRepository(owner+"/"+repo), cmd.Flags())
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	logCfg := config.MergeLogFlags(cfg.Log, cmd.Flags())

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.Token()
	}

	return &app{
		owner:    owner,
		repo:     repo,
		cfg:      cfg,
		settings: settings,
		token:    token,
		logger:   log.New(cmd.ErrOrStderr(), log.Format(logCfg.Format), logCfg.Level),
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
	}, nil
}

func (a *app) fullName() string {
	return a.owner + "/" + a.repo
}

func (a *app) requireToken() error {
	if a.token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag", a.cfg.GitHub.TokenEnv)
	}
	return nil
}

// historyClient is the GraphQL client wrapped with page-level retries.
func (a *app) historyClient() github.Client {
	retry := a.cfg.Retry
	client := github.NewGraphQLClient(a.cfg.GitHub.GraphQLEndpoint, github.NewHTTPClient(a.token, retry.MaxRetries))
	return github.NewRetryClient(client, &github.RetryConfig{
		MaxRetries:        retry.MaxRetries,
		InitialBackoff:    retry.InitialBackoff,
		MaxBackoff:        retry.MaxBackoff,
		BackoffMultiplier: 2.0,
	}, a.logger)
}

func (a *app) releaseLister() (github.ReleaseLister, error) {
	return github.NewRESTClient(a.cfg.GitHub.APIEndpoint, github.NewHTTPClient(a.token, a.cfg.Retry.MaxRetries))
}

// lastRelease finds the release bounding the collection. With tag set it
// is the release carrying that tag; otherwise the highest matching one.
// Nil means the repository has no such release.
func (a *app) lastRelease(ctx context.Context, tag string) (*github.Release, error) {
	lister, err := a.releaseLister()
	if err != nil {
		return nil, err
	}

	if tag != "" {
		releases, err := lister.ListReleases(ctx, a.owner, a.repo)
		if err != nil {
			return nil, err
		}
		return github.ReleaseByTag(releases, tag)
	}

	release, err := github.FindLastRelease(ctx, lister, a.owner, a.repo, github.ReleaseFilter{
		TagPrefix:          a.settings.TagPrefix,
		IncludePreReleases: a.settings.IncludePreReleases,
	})
	if errors.Is(err, relaierrors.ErrNoRelease) {
		a.logger.Info(ctx, fmt.Sprintf("No previous release found for %s", a.fullName()))
		return nil, nil
	}
	return release, err
}

// printJSON writes v to stdout as indented JSON. A nil pointer prints null.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// parseRepository parses an owner/repo string into owner and repo components
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relaierrors.ErrInvalidToken) ||
		errors.Is(err, relaierrors.ErrRepoNotFound) ||
		errors.Is(err, relaierrors.ErrRefNotFound) ||
		errors.Is(err, relaierrors.ErrRateLimit) {
		return 2 // Authentication, not found and rate limit errors
	}

	if errors.Is(err, relaierrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
