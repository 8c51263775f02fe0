// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for uvextras.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uvextras",
		Short: "Shared and project scripts on top of uv",
		Long: TitleStyle.Render("uvextras") + SubtitleStyle.Render(" - shared and project scripts on top of uv") + `

uvextras keeps a library of Python and shell scripts next to uv and runs
them by name, merging a global configuration with the one of the current
project (.uvextras/uvextras.yaml) and the project's .uvextras/scripts directory.

` + SubtitleStyle.Render("Examples:") + `
  uvextras info                 Show uv, locations and local scripts
  uvextras list                 List every known script
  uvextras run lint             Run 'lint' after its dependencies
  uvextras run test -- -k fast  Pass extra arguments to the script
  uvextras validate             Check the merged configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setVerbose(app.logger, verbose)
		},
	}

	rootCmd.PersistentFlags().StringP("file", "f", "", "path to the config file (default: resolved uvextras.yaml or the built-in document)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newInfoCommand(app),
		newInitCommand(app),
		newListCommand(app),
		newRunCommand(app),
		newValidateCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute builds the application and runs the root command.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	installLogger(app.logger)

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
