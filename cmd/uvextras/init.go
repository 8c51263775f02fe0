// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/runtime"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

// initScriptName is the script `uvextras init` runs when the configuration declares it.
const initScriptName = "init"

func newInitCommand(app *App) *cobra.Command {
	var dryRun bool
	initCmd := &cobra.Command{
		Use:   "init [args...]",
		Short: "Wrap `uv init` with the configured defaults",
		Long: `Create a project with the package manager's init command.

When the configuration declares an 'init' script, it runs with its options
and dependencies; otherwise '<package-manager> init' runs. Arguments are
appended in both cases.`,
		Example: `  uvextras init
  uvextras init my-lib --lib`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.load(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}

			store := res.Store
			if store.Find(initScriptName) == nil {
				command, err := runtime.QuoteArgv([]string{res.Settings.PackageManager, "init"})
				if err != nil {
					return err
				}
				builtin := &scriptfile.Definition{
					Name:        initScriptName,
					Description: "builtin " + res.Settings.PackageManager + " init",
					Command:     command,
				}
				store = scriptfile.NewStore(store.Table(), []*scriptfile.Definition{builtin}, nil)
			}
			return app.runScript(cmd.Context(), cmd, store, res.Settings, runRequest{Name: initScriptName, Args: passThrough(args), DryRun: dryRun})
		},
	}

	initCmd.Flags().SetInterspersed(false)
	initCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the command line instead of running it")
	return initCmd
}
