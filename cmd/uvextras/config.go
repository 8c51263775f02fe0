// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/config"
)

// newConfigCommand creates the `uvextras config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the uvextras configuration",
		Long: `Inspect the uvextras configuration.

The global configuration is searched in:
  - $UVEXTRAS_CONFIG
  - $XDG_CONFIG_HOME/uvextras/uvextras.yaml
  - ~/.config/uvextras/uvextras.yaml
  - uvextras.yaml next to the uvextras binary
  - ./uvextras.yaml

The project configuration is .uvextras/uvextras.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the merged configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := app.load(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}
			out, err := res.Store.Marshal()
			if err != nil {
				return fmt.Errorf("failed to marshal configuration: %w", err)
			}
			_, err = app.stdout.Write(out)
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Output the built-in configuration document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := app.stdout.Write(config.DefaultDocument())
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := app.load(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}
			global := res.ConfigPath
			if global == "" {
				global = config.BuiltinPath
			}
			fmt.Fprintf(app.stdout, "%s %s\n", CmdStyle.Render("config:"), global)
			local := res.LocalConfigPath
			if local == "" {
				local = VerboseStyle.Render("(none)")
			}
			fmt.Fprintf(app.stdout, "%s %s\n", CmdStyle.Render("localconfig:"), local)
			return nil
		},
	})

	return cfgCmd
}
