// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError tells the user what failed, on what, and what to try
	// next. Build it with ErrorContext:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("parse configuration").
	//		WithResource(path).
	//		WithSuggestion("Check the YAML syntax and the field names").
	//		WithIssue(issue.ConfigParseErrorId).
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase: "load configuration", "run script".
		Operation string
		// Resource is the path or name involved, if any.
		Resource string
		// Suggestions are printed one per line below the message.
		Suggestions []string
		// Cause is reachable through errors.Is and errors.As.
		Cause error
		// IssueID links the catalog entry shown by Guide; 0 for none.
		IssueID Id
	}

	// ErrorContext accumulates the fields of an ActionableError. A context
	// can be kept and reused for several failures of the same operation.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
		issueID     Id
	}
)

// NewErrorContext starts an empty ErrorContext.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by the suggestions as a bullet list.
// verbose appends every error of the cause chain, one per numbered line.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		for i, err := 1, e.Cause; err != nil; i, err = i+1, errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", i, err)
		}
	}
	return b.String()
}

// Guide renders the linked catalog entry with glamour.
// It returns "" when no entry is linked or rendering fails.
func (e *ActionableError) Guide(stylePath string) string {
	iss := Get(e.IssueID)
	if iss == nil {
		return ""
	}
	out, err := iss.Render(stylePath)
	if err != nil {
		return ""
	}
	return out
}

// WithOperation sets the operation, required by Build.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the path or name involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithIssue links the catalog entry rendered by Guide.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issueID = id
	return c
}

// Wrap sets the cause, replacing any previous one.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: append([]string(nil), c.suggestions...),
		Cause:       c.cause,
		IssueID:     c.issueID,
	}
}

// BuildError is Build for return statements: it never yields a non-nil
// error holding a nil *ActionableError.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
