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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-notes/internal/config"
	"github.com/sirseerhq/sirseer-notes/internal/github"
	"github.com/sirseerhq/sirseer-notes/internal/history"
	"github.com/sirseerhq/sirseer-notes/internal/metadata"
	"github.com/sirseerhq/sirseer-notes/internal/output"
)

// Values of --last-release.
const (
	lastReleaseAuto = "auto"
	lastReleaseNone = "none"
)

type collectOptions struct {
	lastRelease string
	sinceTag    string
	outputFile  string
	quiet       bool
}

func newCollectCommand() *cobra.Command {
	var opts collectOptions

	cmd := &cobra.Command{
		Use:   "collect <owner>/<repo>",
		Short: "Collect the commits and pull requests since the last release",
		Long: `Collect the commits of a ref since the last release, keep those touching
the include paths, and gather the pull requests merged into the repository
through them.

The repository must be specified in the format: <owner>/<repo>

Records are written as NDJSON ({"type":"commit",...} and
{"type":"pull_request",...} per line) or, with --format json, as a single
JSON document.

If the history since the last release cannot be fetched, a warning is logged
and an empty collection is written. Without a last release any failure is
an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, args[0])
			if err != nil {
				return err
			}
			return runCollect(cmd.Context(), a, opts)
		},
	}

	flags := cmd.Flags()
	flags.String(config.FlagRef, "", "Git ref to collect from: branch, tag or SHA (default from config, HEAD)")
	flags.StringVar(&opts.lastRelease, "last-release", lastReleaseAuto, "Bound the history by the last release: auto or none")
	flags.StringVar(&opts.sinceTag, "since-tag", "", "Bound the history by the release with this tag")
	flags.String(config.FlagTagPrefix, "", "Only consider releases whose tag starts with this prefix")
	flags.Bool(config.FlagIncludePreReleases, false, "Consider pre-releases when looking for the last release")
	flags.StringSlice(config.FlagIncludePath, nil, "Only keep commits touching this path prefix (repeatable)")
	flags.String(config.FlagChangeTemplate, "", "Change line template; $BODY and $URL decide which pull request fields are fetched")
	flags.Int(config.FlagPageSize, config.MaxPageSize, "Commits per request")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.String(config.FlagFormat, output.FormatNDJSON, "Output format: ndjson or json")
	flags.String(config.FlagMetadataDir, "", "Directory to save collection metadata in")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not report progress")

	return cmd
}

func runCollect(ctx context.Context, a *app, opts collectOptions) error {
	switch opts.lastRelease {
	case lastReleaseAuto, lastReleaseNone:
	default:
		return fmt.Errorf("invalid --last-release %q (want auto or none)", opts.lastRelease)
	}
	if err := a.requireToken(); err != nil {
		return err
	}

	tracker := metadata.New()

	var boundary *github.Release
	if opts.lastRelease == lastReleaseAuto || opts.sinceTag != "" {
		release, err := a.lastRelease(ctx, opts.sinceTag)
		if err != nil {
			return fmt.Errorf("failed to find last release: %w", err)
		}
		tracker.IncrementAPICall()
		boundary = release
	}

	withBody, withURL := history.TemplateFields(a.settings.ChangeTemplate)
	observers := multiObserver{tracker}
	if !opts.quiet {
		observers = append(observers, &progressObserver{w: a.stderr, name: a.fullName()})
	}

	fetcher := history.NewFetcher(a.historyClient(),
		history.WithLogger(a.logger),
		history.WithPageSize(a.settings.PageSize),
		history.WithObserver(observers),
	)
	result, err := fetcher.FindCommitsWithPullRequests(ctx, history.Request{
		Owner:               a.owner,
		Repo:                a.repo,
		Ref:                 a.settings.Ref,
		LastRelease:         boundary,
		IncludePaths:        a.settings.IncludePaths,
		WithPullRequestBody: withBody,
		WithPullRequestURL:  withURL,
	})
	if !opts.quiet {
		fmt.Fprintf(a.stderr, "\r\033[K") // Clear progress line
	}
	if err != nil {
		return err
	}
	tracker.RecordResult(result)

	if err := writeCollection(a, opts.outputFile, boundary, result); err != nil {
		return err
	}

	if dir := a.settings.MetadataDir; dir != "" {
		if err := saveMetadata(ctx, a, tracker, boundary, dir); err != nil {
			return err
		}
	}

	if !opts.quiet {
		fmt.Fprintf(a.stderr, "Collected %d commits and %d pull requests from %s\n",
			len(result.Commits), len(result.PullRequests), a.fullName())
	}
	return nil
}

func writeCollection(a *app, path string, boundary *github.Release, result *history.Result) error {
	var (
		w   output.OutputWriter
		err error
	)
	if path == "" {
		w, err = output.New(a.settings.OutputFormat, a.stdout)
	} else {
		w, err = output.Open(a.settings.OutputFormat, path)
	}
	if err != nil {
		return err
	}

	if boundary != nil {
		if err := w.Write(output.NewReleaseRecord(*boundary)); err != nil {
			_ = w.Close()
			return err
		}
	}
	if err := output.WriteResult(w, result); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func saveMetadata(ctx context.Context, a *app, tracker *metadata.Tracker, boundary *github.Release, dir string) error {
	if previous, err := metadata.LoadLatestMetadata(dir, a.fullName()); err == nil && previous != nil {
		a.logger.Debug(ctx, fmt.Sprintf("Previous collection %s found %d pull requests",
			previous.CollectionID, previous.Results.PullRequests))
	}

	m := tracker.GenerateMetadata(notesVersion, metadata.CollectionParams{
		Owner:        a.owner,
		Repository:   a.repo,
		Ref:          a.settings.Ref,
		IncludePaths: a.settings.IncludePaths,
		PageSize:     a.settings.PageSize,
	}, boundary)

	path, err := metadata.SaveMetadata(m, dir)
	if err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	a.logger.Info(ctx, fmt.Sprintf("Saved collection metadata to %s", path))
	return nil
}

// multiObserver fans history progress out to several observers.
type multiObserver []history.Observer

func (m multiObserver) PageFetched(page, fetched, total int) {
	for _, o := range m {
		o.PageFetched(page, fetched, total)
	}
}

func (m multiObserver) PageSizeReduced(pageSize int) {
	for _, o := range m {
		o.PageSizeReduced(pageSize)
	}
}

// progressObserver reports history progress on a single terminal line.
type progressObserver struct {
	w    io.Writer
	name string
}

func (p *progressObserver) PageFetched(page, fetched, total int) {
	fmt.Fprintf(p.w, "\rFetching commits from %s... %d / %d | Page %d", p.name, fetched, total, page)
}

func (p *progressObserver) PageSizeReduced(pageSize int) {
	fmt.Fprintf(p.w, "\r\033[K") // Clear line
	fmt.Fprintf(p.w, "Query complexity limit hit. Reducing page size to %d...\n", pageSize)
}
