// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestVirtualRuntime_Name(t *testing.T) {
	t.Parallel()

	if got := NewVirtualRuntime().Name(); got != "virtual" {
		t.Errorf("Name() = %q, want virtual", got)
	}
}

func TestVirtualRuntime_Execute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		argv     []string
		env      []string
		wantCode ExitCode
		wantOut  string
	}{
		{
			name:    "builtin echo",
			argv:    []string{"echo", "Hello from virtual"},
			wantOut: "Hello from virtual\n",
		},
		{
			name:    "arguments are not re-split or expanded",
			argv:    []string{"echo", "a  b", "$HOME", "*"},
			wantOut: "a  b $HOME *\n",
		},
		{
			name:    "environment reaches the interpreter",
			argv:    []string{"eval", "echo $UVX_MARKER"},
			env:     []string{"UVX_MARKER=virtual"},
			wantOut: "virtual\n",
		},
		{
			name:     "exit status is propagated",
			argv:     []string{"exit", "3"},
			wantCode: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := tt.env
			if env == nil {
				env = []string{}
			}
			inv := &Invocation{Name: "test", Argv: tt.argv, Env: env}
			result := NewVirtualRuntime().Execute(context.Background(), inv, IO{})

			if result.Error != nil {
				t.Fatalf("Execute() error: %v", result.Error)
			}
			if result.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.wantCode)
			}
			if result.Output != tt.wantOut {
				t.Errorf("Output = %q, want %q", result.Output, tt.wantOut)
			}
		})
	}
}

func TestVirtualRuntime_WorkDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	inv := &Invocation{Name: "pwd", Argv: []string{"pwd"}, Env: []string{}, Dir: dir}

	result := NewVirtualRuntime().Execute(context.Background(), inv, IO{Stdout: &stdout})
	if !result.Success() {
		t.Fatalf("Execute() = %+v", result)
	}
	if got := strings.TrimSpace(stdout.String()); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestVirtualRuntime_InvalidWorkingDirectory(t *testing.T) {
	t.Parallel()

	inv := &Invocation{Name: "pwd", Argv: []string{"pwd"}, Dir: "/nonexistent/directory"}
	result := NewVirtualRuntime().Execute(context.Background(), inv, IO{})
	if result.Error == nil || !strings.Contains(result.Error.Error(), "directory") {
		t.Errorf("Execute() = %+v, want directory error", result)
	}
}

func TestVirtualRuntime_EmptyArgv(t *testing.T) {
	t.Parallel()

	result := NewVirtualRuntime().Execute(context.Background(), &Invocation{Name: "empty"}, IO{})
	if !errors.Is(result.Error, ErrEmptyArgv) {
		t.Errorf("Error = %v, want ErrEmptyArgv", result.Error)
	}
}

func TestVirtualRuntime_UnquotableArgument(t *testing.T) {
	t.Parallel()

	inv := &Invocation{Name: "nul", Argv: []string{"echo", "a\x00b"}}
	result := NewVirtualRuntime().Execute(context.Background(), inv, IO{})
	if result.Error == nil {
		t.Error("Execute() should reject an argument containing NUL")
	}
}

func TestVirtualRuntime_ContextCancellation(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	result := NewVirtualRuntime().Execute(ctx, &Invocation{Name: "wait", Argv: []string{"sleep", "5"}}, IO{})
	if result.Success() {
		t.Fatal("Execute() past the deadline should fail")
	}
	if !errors.Is(result.Error, context.DeadlineExceeded) {
		t.Errorf("Error = %v, want context.DeadlineExceeded", result.Error)
	}
	if result.ExitCode != ExitInterrupted {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, ExitInterrupted)
	}
}
