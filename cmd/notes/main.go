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
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-notes/internal/config"
)

var notesVersion = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sirseer-notes",
		Short: "Collect release note data from GitHub repositories",
		Long: `SirSeer Notes collects the commits and pull requests that went into a
repository since its last release, and resolves the next version number.
Rendering the notes is left to the consumer of its output.`,
		Version:       notesVersion,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file (default: .sirseer-notes.yaml or ~/.sirseer/notes.yaml)")
	flags.String("token", "", "GitHub personal access token (overrides the configured token variable)")
	flags.String(config.FlagLogLevel, "", "Log level: debug, info, warn or error")
	flags.String(config.FlagLogFormat, "", "Log format: pretty or json")

	rootCmd.AddCommand(newCollectCommand(), newVersionCommand(), newReleaseCommand())
	return rootCmd
}
