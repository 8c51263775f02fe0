// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/app/execute"
	"github.com/uvextras/uvextras/internal/config"
	"github.com/uvextras/uvextras/internal/issue"
	"github.com/uvextras/uvextras/internal/runtime"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

// runRequest captures one script execution.
type runRequest struct {
	Name   string
	Args   []string
	DryRun bool
}

func newRunCommand(app *App) *cobra.Command {
	var (
		dryRun   bool
		watching bool
		patterns []string
	)
	runCmd := &cobra.Command{
		Use:   "run <script> [args...]",
		Short: "Run a script after its dependencies",
		Long: `Run a script by name. Its direct dependencies (depends-on) run first,
in declaration order. Arguments after the script name are passed to the
script verbatim; flags for uvextras itself go before the script name. A
"--" right after the script name is dropped.`,
		Example: `  uvextras run lint
  uvextras run --dry-run deploy
  uvextras run -k check
  uvextras run --watch test
  uvextras run test -x -k "not slow"
  uvextras run test -- -k fast`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			return app.scriptNames(cmd), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := runRequest{Name: args[0], Args: passThrough(args[1:]), DryRun: dryRun}
			if watching {
				return app.watchScript(cmd, req, patterns)
			}
			res, err := app.load(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}
			return app.runScript(cmd.Context(), cmd, res.Store, res.Settings, req)
		},
	}

	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the command lines instead of running them")
	runCmd.Flags().BoolP("keep-going", "k", false, "run the remaining steps after a failure")
	runCmd.Flags().String("runtime", string(config.RuntimeNative), "runtime to execute scripts with (native or virtual)")
	runCmd.Flags().BoolVarP(&watching, "watch", "w", false, "re-run when project files change")
	runCmd.Flags().StringSliceVar(&patterns, "watch-pattern", nil, "glob of files that trigger a re-run (default: Python sources, pyproject.toml, uv.lock, uvextras.yaml)")
	return runCmd
}

// passThrough drops the "--" that separates script arguments. With
// interspersed flags off, pflag keeps a "--" that follows a positional.
func passThrough(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}

// runScript plans req against store and executes the plan under ctx.
func (a *App) runScript(ctx context.Context, cmd *cobra.Command, store *scriptfile.Store, settings config.Settings, req runRequest) error {
	planner := execute.NewPlanner(store, settings, execute.WithEnviron(a.environ))
	plan, err := planner.Plan(req.Name, req.Args)
	if err != nil {
		id := issue.Id(0)
		if errors.Is(err, execute.ErrUnknownScript) {
			id = issue.ScriptNotFoundId
		}
		return a.fail(cmd, newServiceError(err, id, ErrorStyle.Render("Error: ")+err.Error()+"\n"))
	}

	runner := execute.NewRunner(a.Runtimes, execute.RunOptions{
		Runtime:   runtime.RuntimeType(settings.Runtime),
		KeepGoing: settings.KeepGoing,
		DryRun:    req.DryRun,
		Streams:   a.streams(),
	})
	err = runner.RunPlan(ctx, plan)

	var stepErr *execute.ExitError
	if errors.As(err, &stepErr) {
		if verboseFlag(cmd) || settings.Verbose {
			renderServiceError(a.stderr, newServiceError(stepErr, issue.ScriptExecutionFailedId, ""))
		}
		cmd.SilenceErrors = true
		return &ExitError{Code: stepErr.Code, Err: stepErr}
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", req.Name, err)
	}
	return nil
}

// scriptNames lists the script names for shell completion.
func (a *App) scriptNames(cmd *cobra.Command) []string {
	file, _ := cmd.Flags().GetString("file")
	res, err := a.Config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: file,
		LookupEnv:      a.lookupEnv,
		ExecutableDir:  a.executableDir,
	})
	if err != nil {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, def := range res.Store.SortedScripts() {
		if !seen[def.Name] {
			seen[def.Name] = true
			names = append(names, def.Name+"\t"+def.Description)
		}
	}
	return names
}
