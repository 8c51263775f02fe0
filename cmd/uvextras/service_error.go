// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/issue"
)

// guideStyle is the glamour style used for issue catalog entries.
const guideStyle = "dark"

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(guideStyle)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// renderError prints what the CLI knows about err to stderr: a ServiceError
// with its catalog entry, or an ActionableError with its suggestions and guide.
// It reports whether anything was printed.
func renderError(stderr io.Writer, err error, verbose bool) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(stderr, svcErr)
		return true
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+ae.Format(verbose))
		if guide := ae.Guide(guideStyle); guide != "" {
			fmt.Fprint(stderr, guide)
		}
		return true
	}
	return false
}

// fail renders err and silences Cobra's own error output when the error
// was already shown.
func (a *App) fail(cmd *cobra.Command, err error) error {
	if renderError(a.stderr, err, verboseFlag(cmd)) {
		cmd.SilenceErrors = true
	}
	return err
}
