// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/uvextras/uvextras/internal/issue"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic message: %s", msg)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.ScriptNotFoundId, "styled")

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
	if svcErr.IssueID != issue.ScriptNotFoundId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.ScriptNotFoundId)
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		svcErr  *ServiceError
		want    string
		catalog bool
	}{
		{name: "nil", svcErr: nil, want: ""},
		{name: "styled message only", svcErr: newServiceError(errors.New("x"), 0, "only this"), want: "only this"},
		{name: "with catalog entry", svcErr: newServiceError(errors.New("x"), issue.ScriptNotFoundId, "styled: "), want: "styled: ", catalog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			renderServiceError(&buf, tt.svcErr)
			got := buf.String()

			if !tt.catalog {
				if got != tt.want {
					t.Errorf("output = %q, want %q", got, tt.want)
				}
				return
			}
			if !strings.HasPrefix(got, tt.want) || len(got) <= len(tt.want) {
				t.Errorf("expected styled message followed by the catalog entry, got %q", got)
			}
			if !strings.Contains(got, "uvextras list") {
				t.Errorf("catalog entry missing from output: %q", got)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	actionable := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("/tmp/missing.yaml").
		WithSuggestion("Verify the file path is correct").
		Wrap(errors.New("config file not found")).
		BuildError()

	tests := []struct {
		name    string
		err     error
		handled bool
		want    string
	}{
		{name: "plain error", err: errors.New("boom"), handled: false},
		{name: "service error", err: newServiceError(errors.New("boom"), 0, "styled\n"), handled: true, want: "styled"},
		{name: "actionable error", err: actionable, handled: true, want: "Verify the file path is correct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handled := renderError(&buf, tt.err, true)
			if handled != tt.handled {
				t.Errorf("renderError() = %v, want %v", handled, tt.handled)
			}
			if !tt.handled && buf.Len() != 0 {
				t.Errorf("unhandled error printed %q", buf.String())
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}
