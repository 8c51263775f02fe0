// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// SeverityWarning indicates a recoverable problem; the run continues.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a problem that makes the configuration unusable for some script.
	SeverityError Severity = "error"

	// CodeMergeTargetMissing: a non-local script merged from another document has no counterpart.
	CodeMergeTargetMissing = "merge_target_missing"
	// CodeUnknownDependency: a depends-on entry names no known script.
	CodeUnknownDependency = "unknown_dependency"
	// CodeDependencyCycle: scripts depend on each other in a loop.
	CodeDependencyCycle = "dependency_cycle"
	// CodeShadowedScript: a later local script is unreachable because an earlier one shares its name.
	CodeShadowedScript = "shadowed_script"
	// CodeMissingScriptFile: an interpreter script points at a file that does not exist.
	CodeMissingScriptFile = "missing_script_file"
	// CodeUnresolvedDirectory: the scripts directory of an interpreter script is unset.
	CodeUnresolvedDirectory = "unresolved_directory"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal finding returned to callers
	// so the CLI layer decides how to render it.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "merge_target_missing").
		Code string
		// Script is the script the diagnostic is about.
		Script string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
	}
)

// NewWarning builds a warning diagnostic about script.
func NewWarning(code, script, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Script:   script,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewError builds an error diagnostic about script.
func NewError(code, script, format string, args ...any) Diagnostic {
	d := NewWarning(code, script, format, args...)
	d.Severity = SeverityError
	return d
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Path)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Log writes the diagnostic to the default slog logger at a level matching its severity.
func (d Diagnostic) Log() {
	level := slog.LevelWarn
	if d.Severity == SeverityError {
		level = slog.LevelError
	}
	attrs := []any{"code", d.Code, "script", d.Script}
	if d.Path != "" {
		attrs = append(attrs, "path", d.Path)
	}
	slog.Log(context.Background(), level, d.Message, attrs...)
}
