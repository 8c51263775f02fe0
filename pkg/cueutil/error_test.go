// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		err := FormatError(nil, "test.yaml")
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "test.yaml")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "test.yaml") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !strings.Contains(err.Error(), "some error") {
			t.Errorf("error should contain original message, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{
			name:     "empty path",
			path:     []string{},
			expected: "",
		},
		{
			name:     "single element",
			path:     []string{"name"},
			expected: "name",
		},
		{
			name:     "nested path",
			path:     []string{"settings", "runtime"},
			expected: "settings.runtime",
		},
		{
			name:     "array index",
			path:     []string{"scripts", "0", "cmd"},
			expected: "scripts[0].cmd",
		},
		{
			name:     "multiple array indices",
			path:     []string{"scripts", "0", "options", "2", "value"},
			expected: "scripts[0].options[2].value",
		},
		{
			name:     "nested arrays",
			path:     []string{"items", "0", "values", "1"},
			expected: "items[0].values[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := formatPath(tt.path)
			if result != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	t.Run("data within limit returns nil", func(t *testing.T) {
		t.Parallel()

		data := []byte("hello world")
		err := CheckFileSize(data, 100, "test.yaml")
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("data at exact limit returns nil", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 100)
		err := CheckFileSize(data, 100, "test.yaml")
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("data exceeding limit returns error", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 101)
		err := CheckFileSize(data, 100, "test.yaml")
		if err == nil {
			t.Error("expected error")
		}
		if !strings.Contains(err.Error(), "test.yaml") {
			t.Errorf("error should contain filename, got: %v", err)
		}
		if !strings.Contains(err.Error(), "101") {
			t.Errorf("error should contain actual size, got: %v", err)
		}
		if !strings.Contains(err.Error(), "100") {
			t.Errorf("error should contain max size, got: %v", err)
		}
	})

	t.Run("empty data returns nil", func(t *testing.T) {
		t.Parallel()

		err := CheckFileSize([]byte{}, 100, "test.yaml")
		if err != nil {
			t.Errorf("expected nil for empty data, got %v", err)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "single issue with path",
			err: &ValidationError{
				FilePath: "uvextras.yaml",
				Issues:   []Issue{{Path: "scripts[0].name", Message: "expected string, got int"}},
			},
			want: "uvextras.yaml: scripts[0].name: expected string, got int",
		},
		{
			name: "single issue without path",
			err: &ValidationError{
				FilePath: "uvextras.yaml",
				Issues:   []Issue{{Message: "syntax error"}},
			},
			want: "uvextras.yaml: syntax error",
		},
		{
			name: "multiple issues",
			err: &ValidationError{
				FilePath: "uvextras.yaml",
				Issues: []Issue{
					{Path: "scripts[0].name", Message: "incomplete value string"},
					{Path: "envvars[0].bind", Message: "invalid value"},
				},
			},
			want: "uvextras.yaml: validation failed:\n  scripts[0].name: incomplete value string\n  envvars[0].bind: invalid value",
		},
		{
			name: "no issues",
			err:  &ValidationError{FilePath: "uvextras.yaml"},
			want: "uvextras.yaml: validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
