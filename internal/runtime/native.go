// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"os/exec"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// NativeOption configures a NativeRuntime.
	NativeOption func(*NativeRuntime)

	// NativeRuntime runs the argument vector directly, without a shell.
	NativeRuntime struct {
		execCommand ExecCommandFunc
	}
)

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) NativeOption {
	return func(r *NativeRuntime) { r.execCommand = fn }
}

// NewNativeRuntime creates a new native runtime.
func NewNativeRuntime(opts ...NativeOption) *NativeRuntime {
	r := &NativeRuntime{execCommand: exec.CommandContext}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return string(RuntimeTypeNative)
}

// Execute runs inv.Argv[0] with the remaining arguments passed verbatim.
func (r *NativeRuntime) Execute(ctx context.Context, inv *Invocation, streams IO) *Result {
	if len(inv.Argv) == 0 {
		return Failed(fmt.Errorf("%s: %w", inv.Name, ErrEmptyArgv))
	}
	if err := validateWorkDir(inv.Dir); err != nil {
		return Failed(err)
	}

	cmd := r.execCommand(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	if inv.Env != nil {
		cmd.Env = inv.Env
	}

	out, captured := newExecuteOutput(streams)
	cmd.Stdin = streams.Stdin
	cmd.Stdout = out.stdout
	cmd.Stderr = out.stderr

	err := cmd.Run()
	result := extractExitCode(err, captured)
	if err != nil && ctx.Err() != nil {
		result.ExitCode = ExitInterrupted
		result.Error = fmt.Errorf("%s interrupted: %w", inv.Name, ctx.Err())
	}
	return result
}
