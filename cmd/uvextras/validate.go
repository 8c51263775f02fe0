// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/app/check"
	"github.com/uvextras/uvextras/internal/issue"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

// ErrValidationFailed is returned by `uvextras validate` when errors were found.
var ErrValidationFailed = errors.New("configuration validation failed")

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the merged configuration",
		Long: `Check the merged configuration without running anything:

  - every depends-on entry names a known script
  - depends-on entries do not form a cycle
  - no local script is shadowed by an earlier one with the same name
  - every interpreter script has its file in a scripts directory

Exits non-zero when an error is found; warnings alone do not fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := app.load(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}

			report := check.Validate(res.Store)
			app.Diagnostics.Render(cmd.Context(), report.Diagnostics, app.stderr)

			errs := len(report.Errors())
			warnings := len(report.Warnings())
			if !report.HasErrors() {
				fmt.Fprintf(app.stdout, "%s %d scripts checked, %d warning(s)\n",
					SuccessStyle.Render(checkmark), report.Scripts, warnings)
				return nil
			}

			id := issue.ValidationFailedId
			if report.Has(scriptfile.CodeDependencyCycle) {
				id = issue.DependencyCycleId
			}
			summary := fmt.Sprintf("%s %d error(s), %d warning(s) in %d scripts\n",
				ErrorStyle.Render("✗"), errs, warnings, report.Scripts)
			svcErr := newServiceError(ErrValidationFailed, id, summary)
			if verboseFlag(cmd) {
				renderServiceError(app.stderr, svcErr)
			} else {
				fmt.Fprint(app.stderr, summary)
			}
			cmd.SilenceErrors = true
			return &ExitError{Code: 1, Err: svcErr}
		},
	}
}
