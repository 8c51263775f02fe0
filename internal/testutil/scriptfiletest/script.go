// SPDX-License-Identifier: MPL-2.0

package scriptfiletest

import (
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

// ScriptOption configures a test script.
// Apply options to customize beyond the minimal defaults.
type ScriptOption func(*scriptfile.Definition)

// NewTestScript creates a test script with the given name and options.
// By default, creates a script that:
//   - runs through the interpreter (use-python: true)
//   - is local (is-local: true)
//   - has no command, dependencies, env or options
//
// Usage:
//
//	s := scriptfiletest.NewTestScript("build")
//	s := scriptfiletest.NewTestScript("build",
//	    scriptfiletest.WithCommand("uv build"),
//	    scriptfiletest.Raw(),
//	    scriptfiletest.WithDependsOn("lint", "test"),
//	)
func NewTestScript(name string, opts ...ScriptOption) *scriptfile.Definition {
	d := &scriptfile.Definition{
		Name:            name,
		UsesInterpreter: true,
		IsLocal:         true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithCommand sets the script command.
func WithCommand(cmd string) ScriptOption {
	return func(d *scriptfile.Definition) {
		d.Command = cmd
	}
}

// WithDescription sets the script description.
func WithDescription(desc string) ScriptOption {
	return func(d *scriptfile.Definition) {
		d.Description = desc
	}
}

// Raw makes the script a raw shell command (use-python: false).
func Raw() ScriptOption {
	return func(d *scriptfile.Definition) {
		d.UsesInterpreter = false
	}
}

// Shared makes the script non-local (is-local: false).
func Shared() ScriptOption {
	return func(d *scriptfile.Definition) {
		d.IsLocal = false
	}
}

// WithDependsOn appends dependencies.
func WithDependsOn(names ...string) ScriptOption {
	return func(d *scriptfile.Definition) {
		d.DependsOn = append(d.DependsOn, names...)
	}
}

// WithEnv adds an environment variable to the script.
func WithEnv(key, value string) ScriptOption {
	return func(d *scriptfile.Definition) {
		if d.Env == nil {
			d.Env = make(scriptfile.Env)
		}
		d.Env[key] = value
	}
}

// WithOption appends a valued flag.
func WithOption(flag, value string) ScriptOption {
	return func(d *scriptfile.Definition) {
		d.Options.Set(flag, scriptfile.StringValue(value))
	}
}

// WithFlag appends a presence-only flag.
func WithFlag(flag string) ScriptOption {
	return func(d *scriptfile.Definition) {
		d.Options.Set(flag, nil)
	}
}
