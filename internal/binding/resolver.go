// SPDX-License-Identifier: MPL-2.0

package binding

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

type (
	// LookupFunc reports the value of a variable and whether it is set.
	// os.LookupEnv satisfies it.
	LookupFunc func(name string) (string, bool)

	// Binding describes one named, resolvable location.
	Binding struct {
		// Bind is the symbolic key, unique per table.
		Bind Key `yaml:"bind"`
		// Name is the environment variable that overrides resolution when set.
		Name string `yaml:"name"`
		// Resolve lists candidate path templates tried in order.
		Resolve []string `yaml:"resolve,omitempty"`
		// Probe, when set, yields one more candidate after Resolve is exhausted.
		// Used for locations only the package manager knows about.
		Probe func() (string, error) `yaml:"-"`
	}

	// Resolution is the outcome of resolving a single binding.
	Resolution struct {
		Bind  Key
		Value string
		// SetInEnvironment is true when the override variable supplied Value.
		SetInEnvironment bool
	}

	// Resolver resolves bindings against an explicit context instead of the
	// process environment.
	Resolver struct {
		// LookupEnv is the override channel: real environment variables.
		// Defaults to os.LookupEnv.
		LookupEnv LookupFunc
		// LookupVar resolves $VAR references inside candidates. When nil or
		// when it reports unset, LookupEnv is consulted.
		LookupVar LookupFunc
	}
)

// Resolve resolves b against the process environment.
func Resolve(b Binding) Resolution {
	return (&Resolver{}).Resolve(b)
}

// Resolve resolves one binding:
//   - an override variable that is set wins, verbatim;
//   - otherwise each candidate is expanded, made absolute and returned if it exists;
//   - otherwise the value is "".
//
// A candidate referencing a variable that is unset or empty is skipped, so
// "$UNSET/scripts" never degrades into "/scripts".
func (r *Resolver) Resolve(b Binding) Resolution {
	res := Resolution{Bind: b.Bind}

	if b.Name != "" {
		if v, ok := r.env(b.Name); ok {
			res.Value = v
			res.SetInEnvironment = true
			return res
		}
	}

	for _, candidate := range b.Resolve {
		if path, ok := r.existing(candidate); ok {
			res.Value = path
			return res
		}
	}

	if b.Probe != nil {
		probed, err := b.Probe()
		if err != nil {
			slog.Debug("binding probe failed", "bind", b.Bind, "error", err)
			return res
		}
		if path, ok := r.existing(strings.TrimSpace(probed)); ok {
			res.Value = path
		}
	}

	return res
}

// existing expands a candidate and returns its canonical absolute path when
// the filesystem entry exists (following symlinks).
func (r *Resolver) existing(candidate string) (string, bool) {
	if candidate == "" {
		return "", false
	}

	expanded, ok := r.Expand(candidate)
	if !ok || expanded == "" {
		return "", false
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(abs); err != nil {
		return "", false
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return abs, true
}

// Expand substitutes $VAR and ${VAR} references in tmpl. The second result is
// false when the template is malformed or references an unset or empty variable.
func (r *Resolver) Expand(tmpl string) (string, bool) {
	missing := false
	out, err := shell.Expand(tmpl, func(name string) string {
		v, ok := r.variable(name)
		if (!ok || v == "") && name != "IFS" {
			missing = true
		}
		return v
	})
	if err != nil || missing {
		return "", false
	}
	return out, true
}

func (r *Resolver) variable(name string) (string, bool) {
	if r.LookupVar != nil {
		if v, ok := r.LookupVar(name); ok {
			return v, true
		}
	}
	return r.env(name)
}

func (r *Resolver) env(name string) (string, bool) {
	if r.LookupEnv != nil {
		return r.LookupEnv(name)
	}
	return os.LookupEnv(name)
}
