// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// RuntimeTypeNative runs invocations with os/exec.
	RuntimeTypeNative RuntimeType = "native"
	// RuntimeTypeVirtual runs invocations through the embedded shell interpreter.
	RuntimeTypeVirtual RuntimeType = "virtual"
)

var (
	// ErrInvalidRuntimeType is the sentinel error wrapped by InvalidRuntimeTypeError.
	ErrInvalidRuntimeType = errors.New("invalid runtime type")

	// ErrRuntimeNotRegistered is returned by Registry.Get for unknown runtimes.
	ErrRuntimeNotRegistered = errors.New("runtime not registered")

	// ErrEmptyArgv is reported when an invocation has nothing to run.
	ErrEmptyArgv = errors.New("invocation has an empty argument vector")
)

type (
	// RuntimeType names a runtime implementation ("native" or "virtual").
	RuntimeType string

	// InvalidRuntimeTypeError is returned when a RuntimeType is not one of
	// the defined runtime types.
	InvalidRuntimeTypeError struct {
		Value RuntimeType
	}

	// IO holds the standard streams of an invocation.
	// A nil Stdout or Stderr captures that stream into the Result instead.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Invocation is one fully prepared process to run.
	Invocation struct {
		// Name is the script this invocation was planned from.
		Name string
		// Argv is the argument vector; Argv[0] is the program.
		Argv []string
		// Env is the complete environment as "KEY=VALUE" entries.
		// A nil Env inherits the current process environment.
		Env []string
		// Dir is the working directory; empty means the current directory.
		Dir string
	}

	// Result contains the result of an invocation.
	Result struct {
		// ExitCode is the process exit code.
		ExitCode ExitCode
		// Error contains any infrastructure error that prevented the process from running.
		Error error
		// Output is the captured stdout, when IO.Stdout was nil.
		Output string
		// ErrOutput is the captured stderr, when IO.Stderr was nil.
		ErrOutput string
	}

	// Runtime executes invocations.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Execute runs the invocation and returns its result. Cancelling ctx
		// stops the running process.
		Execute(ctx context.Context, inv *Invocation, streams IO) *Result
	}

	// Registry manages the available runtimes.
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// Error implements the error interface.
func (e *InvalidRuntimeTypeError) Error() string {
	return fmt.Sprintf("invalid runtime type %q (valid: %s, %s)", e.Value, RuntimeTypeNative, RuntimeTypeVirtual)
}

// Unwrap returns ErrInvalidRuntimeType so callers can use errors.Is for programmatic detection.
func (e *InvalidRuntimeTypeError) Unwrap() error { return ErrInvalidRuntimeType }

// String returns the string representation of the RuntimeType.
func (t RuntimeType) String() string { return string(t) }

// Validate returns nil if the RuntimeType is one of the defined runtime types.
func (t RuntimeType) Validate() error {
	switch t {
	case RuntimeTypeNative, RuntimeTypeVirtual:
		return nil
	default:
		return &InvalidRuntimeTypeError{Value: t}
	}
}

// StdIO returns the process's standard streams.
func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// CommandLine renders the invocation's argv as a single shell-quoted line.
func (inv *Invocation) CommandLine() string {
	line, err := QuoteArgv(inv.Argv)
	if err != nil {
		quoted := make([]string, len(inv.Argv))
		for i, arg := range inv.Argv {
			quoted[i] = strconv.Quote(arg)
		}
		return strings.Join(quoted, " ")
	}
	return line
}

// QuoteArgv quotes each argument for a POSIX shell and joins them with spaces.
// Arguments that cannot be represented in shell source (e.g. NUL bytes) are an error.
func QuoteArgv(argv []string) (string, error) {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("cannot quote argument %q: %w", arg, err)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

// NewRegistry creates a new, empty runtime registry.
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// Register adds a runtime to the registry.
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns the runtime registered under typ.
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	if err := typ.Validate(); err != nil {
		return nil, err
	}
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRuntimeNotRegistered, typ)
	}
	return rt, nil
}

// Types returns the registered runtime types, sorted.
func (r *Registry) Types() []RuntimeType {
	types := make([]RuntimeType, 0, len(r.runtimes))
	for typ := range r.runtimes {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}
