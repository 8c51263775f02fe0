// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/uvextras/uvextras/internal/runtime"
)

type (
	// ExitError reports the step that stopped a run and its exit code.
	ExitError struct {
		Script string
		Code   runtime.ExitCode
		Err    error
	}

	// RunOptions configures a Runner.
	RunOptions struct {
		// Runtime selects the registered runtime executing every step.
		Runtime runtime.RuntimeType
		// KeepGoing runs the remaining steps after a failure.
		KeepGoing bool
		// DryRun prints the command line of each step instead of running it.
		DryRun bool
		// Streams are handed to each invocation. A nil writer captures that stream.
		Streams runtime.IO
	}

	// Runner executes plans sequentially.
	Runner struct {
		registry *runtime.Registry
		opts     RunOptions
	}
)

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("script %s failed: %v", e.Script, e.Err)
	}
	return fmt.Sprintf("script %s exited with status %d", e.Script, e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error { return e.Err }

// NewRunner creates a Runner over registry.
func NewRunner(registry *runtime.Registry, opts RunOptions) *Runner {
	return &Runner{registry: registry, opts: opts}
}

// RunPlan executes the runnable steps of plan in order. The first failing
// step stops the run unless KeepGoing is set; with KeepGoing the first
// failure is still reported once every step ran. A canceled context stops
// the run after the in-flight step.
func (r *Runner) RunPlan(ctx context.Context, plan *Plan) error {
	rt, err := r.registry.Get(r.opts.Runtime)
	if err != nil {
		return err
	}
	if r.opts.DryRun {
		return r.print(plan)
	}

	var first *ExitError
	for _, step := range plan.Steps {
		if !step.Runnable() {
			slog.Warn("skipping script", "script", step.Name(), "reason", step.SkipReason)
			continue
		}
		if err := ctx.Err(); err != nil {
			return &ExitError{Script: step.Name(), Code: runtime.ExitInterrupted, Err: err}
		}

		slog.Debug("running script", "script", step.Name(), "runtime", rt.Name(), "cmd", step.Invocation.CommandLine())
		result := rt.Execute(ctx, step.Invocation, r.opts.Streams)
		if result.Success() {
			continue
		}

		failure := &ExitError{Script: step.Name(), Code: result.ExitCode, Err: result.Error}
		if failure.Code.IsSuccess() {
			failure.Code = runtime.ExitFailure
		}
		slog.Debug("script failed", "script", step.Name(), "code", int(failure.Code))

		if ctx.Err() != nil || !r.opts.KeepGoing {
			return failure
		}
		if first == nil {
			first = failure
		}
	}

	if first != nil {
		return first
	}
	return nil
}

func (r *Runner) print(plan *Plan) error {
	var w io.Writer = os.Stdout
	if r.opts.Streams.Stdout != nil {
		w = r.opts.Streams.Stdout
	}
	for _, step := range plan.Steps {
		var err error
		if step.Runnable() {
			_, err = fmt.Fprintln(w, step.Invocation.CommandLine())
		} else {
			_, err = fmt.Fprintf(w, "# skip %s: %s\n", step.Name(), step.SkipReason)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
