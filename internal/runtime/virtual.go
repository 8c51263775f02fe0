// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes invocations using the mvdan/sh interpreter.
// Builtins (echo, cd, pwd, ...) run in-process; anything else is looked up
// on the invocation's PATH.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return string(RuntimeTypeVirtual)
}

// Execute quotes inv.Argv into a single simple command and runs it through the interpreter.
func (r *VirtualRuntime) Execute(ctx context.Context, inv *Invocation, streams IO) *Result {
	if len(inv.Argv) == 0 {
		return Failed(fmt.Errorf("%s: %w", inv.Name, ErrEmptyArgv))
	}
	if err := validateWorkDir(inv.Dir); err != nil {
		return Failed(err)
	}

	line, err := QuoteArgv(inv.Argv)
	if err != nil {
		return Failed(err)
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), inv.Name)
	if err != nil {
		return Failed(fmt.Errorf("failed to parse command: %w", err))
	}

	env := inv.Env
	if env == nil {
		env = os.Environ()
	}

	out, captured := newExecuteOutput(streams)
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(streams.Stdin, out.stdout, out.stderr),
	}
	if inv.Dir != "" {
		opts = append(opts, interp.Dir(inv.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return Failed(fmt.Errorf("failed to create interpreter: %w", err))
	}

	err = runner.Run(ctx, prog)
	result := &Result{
		Output:    captured.stdout.String(),
		ErrOutput: captured.stderr.String(),
	}
	if err == nil {
		return result
	}

	if ctx.Err() != nil {
		result.ExitCode = ExitInterrupted
		result.Error = fmt.Errorf("%s interrupted: %w", inv.Name, ctx.Err())
		return result
	}
	var exitStatus interp.ExitStatus
	if errors.As(err, &exitStatus) {
		result.ExitCode = ExitCode(exitStatus)
		return result
	}
	result.ExitCode = ExitFailure
	result.Error = fmt.Errorf("command execution failed: %w", err)
	return result
}
