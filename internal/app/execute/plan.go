// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/shell"

	"github.com/uvextras/uvextras/internal/config"
	"github.com/uvextras/uvextras/internal/runtime"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

var (
	// ErrUnknownScript is returned when the requested script is not declared.
	ErrUnknownScript = errors.New("unknown script")
	// ErrInvalidCommand is returned when a command line cannot be split into fields.
	ErrInvalidCommand = errors.New("invalid command")
)

type (
	// UnknownScriptError is returned by Plan for a root name no script matches.
	UnknownScriptError struct {
		Name string
	}

	// InvalidCommandError reports a command or interpreter that is not valid shell syntax.
	InvalidCommandError struct {
		Script  string
		Command string
		Err     error
	}

	// Step is one script of a plan.
	Step struct {
		// Script is the definition the step was built from.
		Script *scriptfile.Definition
		// Invocation is nil when the step is not runnable.
		Invocation *runtime.Invocation
		// Root marks the script the plan was requested for.
		Root bool
		// SkipReason explains why Invocation is nil.
		SkipReason string
	}

	// Plan is the ordered list of steps for one requested script: its direct
	// dependencies first, then the script itself.
	Plan struct {
		Root        string
		Steps       []Step
		Diagnostics []scriptfile.Diagnostic
	}

	// PlannerOption configures a Planner.
	PlannerOption func(*Planner)

	// Planner builds run plans from a merged configuration.
	Planner struct {
		store    *scriptfile.Store
		settings config.Settings
		environ  func() []string
		dir      string
	}
)

// Error implements the error interface.
func (e *UnknownScriptError) Error() string {
	return fmt.Sprintf("unknown script %q", e.Name)
}

// Unwrap returns ErrUnknownScript for errors.Is() compatibility.
func (e *UnknownScriptError) Unwrap() error { return ErrUnknownScript }

// Error implements the error interface.
func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("script %q: invalid command %q: %v", e.Script, e.Command, e.Err)
}

// Unwrap returns ErrInvalidCommand and the parser error.
func (e *InvalidCommandError) Unwrap() []error { return []error{ErrInvalidCommand, e.Err} }

// Runnable reports whether the step has an invocation.
func (s Step) Runnable() bool { return s.Invocation != nil }

// Name returns the script name of the step.
func (s Step) Name() string { return s.Script.Name }

// WithEnviron replaces os.Environ as the inherited environment.
func WithEnviron(fn func() []string) PlannerOption {
	return func(p *Planner) { p.environ = fn }
}

// WithWorkDir sets the working directory of every invocation.
func WithWorkDir(dir string) PlannerOption {
	return func(p *Planner) { p.dir = dir }
}

// NewPlanner creates a Planner over store with the effective settings.
func NewPlanner(store *scriptfile.Store, settings config.Settings, opts ...PlannerOption) *Planner {
	p := &Planner{store: store, settings: settings, environ: os.Environ}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan resolves name and its direct dependencies into steps. Unknown
// dependencies are skipped with a warning; dependencies of dependencies are
// not followed. extraArgs are appended to the root step only.
func (p *Planner) Plan(name string, extraArgs []string) (*Plan, error) {
	root := p.store.Find(name)
	if root == nil {
		return nil, &UnknownScriptError{Name: name}
	}

	plan := &Plan{Root: root.Name}
	for _, dep := range root.DependsOn {
		def := p.store.Find(dep)
		if def == nil {
			d := scriptfile.NewWarning(scriptfile.CodeUnknownDependency, root.Name,
				"%s: unknown dependency %s, skipping", root.Name, dep)
			d.Log()
			plan.Diagnostics = append(plan.Diagnostics, d)
			continue
		}
		step, err := p.step(plan, def, nil)
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, step)
	}

	step, err := p.step(plan, root, extraArgs)
	if err != nil {
		return nil, err
	}
	step.Root = true
	plan.Steps = append(plan.Steps, step)

	slog.Debug("planned script", "script", root.Name, "steps", len(plan.Steps))
	return plan, nil
}

func (p *Planner) step(plan *Plan, def *scriptfile.Definition, extraArgs []string) (Step, error) {
	step := Step{Script: def}
	if !def.Runnable() {
		step.SkipReason = "no command"
		return step, nil
	}

	env := p.env(def)
	argv, err := p.argv(def, env)
	if err != nil {
		return Step{}, err
	}
	switch {
	case def.UsesInterpreter && argv == nil:
		d := scriptfile.NewWarning(scriptfile.CodeUnresolvedDirectory, def.Name,
			"%s: scripts directory is not set, skipping", def.Name)
		d.Log()
		plan.Diagnostics = append(plan.Diagnostics, d)
		step.SkipReason = "scripts directory is not set"
		return step, nil
	case len(argv) == 0:
		step.SkipReason = "command expands to nothing"
		return step, nil
	}
	argv = append(argv, def.OptionArgs()...)
	argv = append(argv, extraArgs...)

	step.Invocation = &runtime.Invocation{
		Name: def.Name,
		Argv: argv,
		Env:  env,
		Dir:  p.dir,
	}
	return step, nil
}

// argv returns the command fields of def, expanded against env. It is nil
// for an interpreter script whose scripts directory did not resolve.
func (p *Planner) argv(def *scriptfile.Definition, env []string) ([]string, error) {
	if !def.UsesInterpreter {
		return fields(def.Name, def.Command, env)
	}

	path := def.Path(p.store.Table())
	if path == "" {
		return nil, nil
	}
	command := def.Command
	if strings.TrimSpace(command) == "" {
		command = p.settings.Interpreter
	}
	argv, err := fields(def.Name, command, env)
	if err != nil {
		return nil, err
	}
	return append(argv, path), nil
}

// fields splits a command like a POSIX shell would, expanding $VAR
// references against the environment the invocation runs with.
func fields(script, command string, env []string) ([]string, error) {
	vars := expand.ListEnviron(env...)
	argv, err := shell.Fields(command, func(name string) string {
		return vars.Get(name).String()
	})
	if err != nil {
		return nil, &InvalidCommandError{Script: script, Command: command, Err: err}
	}
	return argv, nil
}

// env layers the sanitized inherited environment, the resolved bindings and
// the script's own variables, later layers winning.
func (p *Planner) env(def *scriptfile.Definition) []string {
	return runtime.MergeEnv(
		runtime.SanitizeEnv(p.environ(), p.settings.SanitizeEnv),
		p.store.Table().Environ(),
		runtime.EnvToSlice(def.Env),
	)
}

// Names returns the script name of every step in order.
func (pl *Plan) Names() []string {
	names := make([]string, len(pl.Steps))
	for i, s := range pl.Steps {
		names[i] = s.Name()
	}
	return names
}

// Runnable returns the steps that have an invocation.
func (pl *Plan) Runnable() []Step {
	return slices.DeleteFunc(slices.Clone(pl.Steps), func(s Step) bool { return !s.Runnable() })
}
