// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// Issue is a single schema violation.
	Issue struct {
		// Path is the JSON path to the invalid value (e.g., "scripts[0].name").
		Path string

		// Message is the violation as reported by CUE, without the path prefix.
		Message string
	}

	// ValidationError collects every schema violation found in one document.
	ValidationError struct {
		// FilePath is the document being validated.
		FilePath string

		// Issues lists the violations in the order CUE reported them.
		Issues []Issue
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		lines = append(lines, is.String())
	}

	switch len(lines) {
	case 0:
		return fmt.Sprintf("%s: validation failed", e.FilePath)
	case 1:
		return fmt.Sprintf("%s: %s", e.FilePath, lines[0])
	default:
		return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
	}
}

// String renders the issue as "<path>: <message>".
func (is Issue) String() string {
	if is.Path == "" {
		return is.Message
	}
	return is.Path + ": " + is.Message
}

// FormatError converts a CUE error into a *ValidationError carrying JSON path
// prefixes for every violation.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - uvextras.yaml: scripts[0].name: incomplete value string
//   - uvextras.yaml: scripts[2].use-python: conflicting values true and "yes" (mismatched types bool and string)
//
// Errors that do not come from CUE are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	out := &ValidationError{FilePath: filePath}
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes includes the path in the message itself
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		out.Issues = append(out.Issues, Issue{Path: pathStr, Message: msg})
	}
	return out
}

// formatPath converts a CUE error path to JSON-path notation for user-facing messages.
// CUE reports paths as flat string slices (e.g., ["scripts", "0", "name"]) where
// numeric elements are list indices; the result reads "scripts[0].name".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		if isIndex && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		} else {
			if i > 0 {
				result.WriteString(".")
			}
			result.WriteString(part)
		}
	}

	return result.String()
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
