// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/binding"
	"github.com/uvextras/uvextras/internal/config"
	"github.com/uvextras/uvextras/pkg/pyproject"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

type infoOptions struct {
	details   bool
	all       bool
	uv        bool
	locations bool
	scripts   bool
}

func newInfoCommand(app *App) *cobra.Command {
	var opts infoOptions
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show info about uvextras and uv",
		Long: `Show the package manager summary, the resolved locations and the
scripts of the current project.

Pass --uv, --locations or --scripts to show only those sections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInfo(cmd, app, opts)
		},
	}

	infoCmd.Flags().BoolVarP(&opts.details, "details", "d", false, "show override variables, commands, paths and options")
	infoCmd.Flags().BoolVarP(&opts.all, "all", "a", false, "list shared scripts as well as local ones")
	infoCmd.Flags().BoolVar(&opts.uv, "uv", false, "show the package manager section")
	infoCmd.Flags().BoolVar(&opts.locations, "locations", false, "show the locations section")
	infoCmd.Flags().BoolVar(&opts.scripts, "scripts", false, "show the scripts section")
	return infoCmd
}

func runInfo(cmd *cobra.Command, app *App, opts infoOptions) error {
	res, err := app.load(cmd)
	if err != nil {
		return app.fail(cmd, err)
	}

	showAll := !opts.uv && !opts.locations && !opts.scripts
	w := app.stdout
	if showAll || opts.uv {
		renderPackageManager(cmd, app, res, opts.details, w)
	}
	if showAll || opts.locations {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderTable("Locations", locationsTable(app, res.Store.Table(), opts.details)))
	}
	if showAll || opts.scripts {
		defs := res.Store.SortedScripts()
		if !opts.all {
			defs = slices.DeleteFunc(defs, func(d *scriptfile.Definition) bool { return !d.IsLocal })
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, renderTable("Scripts", scriptsTable(defs, res.Store.Table(), opts.details)))
	}
	return nil
}

func renderPackageManager(cmd *cobra.Command, app *App, res *config.Result, details bool, w io.Writer) {
	home, _ := app.lookupEnv("HOME")
	paths := newLocationAbbreviator(res.Store.Table(), home)

	tbl := newTable("Item", "Value")
	for _, item := range app.PackageManager.Info(cmd.Context(), details) {
		value := item.Value
		switch {
		case item.Failed:
			value = ErrorStyle.Render(value)
		case !strings.Contains(value, "\n"):
			value = paths.Abbreviate(value)
		}
		tbl.Row(infoKeyStyle.Render(item.Label), value)
	}
	if project := projectRow(app); project != "" {
		tbl.Row(infoKeyStyle.Render("Project"), project)
	}
	fmt.Fprint(w, renderTable("UV Info", tbl))
}

// projectRow summarizes the nearest pyproject.toml, "" when there is none.
func projectRow(app *App) string {
	wd, err := app.workDir()
	if err != nil {
		return ""
	}
	meta, err := pyproject.Load(wd)
	switch {
	case errors.Is(err, pyproject.ErrNotFound):
		return ""
	case err != nil:
		slog.Debug("cannot read project metadata", "error", err)
		return ErrorStyle.Render(err.Error())
	}
	return meta.Project.Summary()
}

// locationsTable lists every binding in table order. details adds the
// override variable, bold when it is set in the environment.
func locationsTable(app *App, t *binding.Table, details bool) *table.Table {
	home, _ := app.lookupEnv("HOME")
	paths := newLocationAbbreviator(t, home, binding.KeyLocalDir, binding.KeyHome)

	headers := []string{"Type"}
	if details {
		headers = append(headers, "Override")
	}
	tbl := newTable(append(headers, "Path")...)

	bindings := t.Bindings()
	for i, res := range t.Resolutions() {
		row := []string{locationTagStyle.Render(string(res.Bind))}
		if details {
			name := bindings[i].Name
			_, set := app.lookupEnv(name)
			row = append(row, envVarRef(name, set && name != ""))
		}
		tbl.Row(append(row, paths.Abbreviate(res.Value))...)
	}
	return tbl
}

// verboseFlag reads the persistent --verbose flag.
func verboseFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}
