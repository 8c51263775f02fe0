// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(app *App) *cobra.Command {
	var details bool
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every known script",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := app.load(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}
			t := res.Store.Table()
			fmt.Fprint(app.stdout, renderTable("Scripts", scriptsTable(res.Store.SortedScripts(), t, details)))
			return nil
		},
	}
	listCmd.Flags().BoolVarP(&details, "details", "d", false, "show commands, paths and options")
	return listCmd
}
