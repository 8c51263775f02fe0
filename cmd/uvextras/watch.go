// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/watch"
)

// watchScript runs req once, then again whenever a file matching patterns
// changes below the working directory, until the command is interrupted.
// The configuration is reloaded before every run.
func (a *App) watchScript(cmd *cobra.Command, req runRequest, patterns []string) error {
	wd, err := a.workDir()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	rerun := a.rerunFunc(cmd, req)
	w, err := watch.New(watch.Config{BaseDir: wd, Patterns: patterns, OnChange: rerun})
	if err != nil {
		return err
	}

	if err := rerun(cmd.Context(), nil); err != nil {
		slog.Debug("initial run failed", "error", err)
	}
	fmt.Fprintf(a.stderr, "%s %s\n", VerboseStyle.Render("watching"), w.BaseDir())
	return w.Run(cmd.Context())
}

// rerunFunc reloads the configuration and runs req under the context the
// watcher hands in.
func (a *App) rerunFunc(cmd *cobra.Command, req runRequest) func(context.Context, []string) error {
	return func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			slog.Info("files changed, re-running", "script", req.Name, "files", changed)
		}
		res, err := a.loadContext(ctx, cmd)
		if err != nil {
			return a.fail(cmd, err)
		}
		return a.runScript(ctx, cmd, res.Store, res.Settings, req)
	}
}
