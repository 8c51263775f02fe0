// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/uvextras/uvextras/internal/binding"
)

// ScriptSuffix is the file suffix of interpreter scripts.
const ScriptSuffix = ".py"

// Definition is one named, runnable script.
type Definition struct {
	// Name is the lookup and merge key.
	Name string `yaml:"name"`
	// Description is shown by info and list.
	Description string `yaml:"desc,omitempty"`
	// Command runs the script. For interpreter scripts it replaces the
	// configured interpreter prefix; for raw scripts it is the whole command.
	// Empty means "not directly runnable" for raw scripts.
	Command string `yaml:"cmd,omitempty"`
	// DependsOn lists scripts run before this one (one level, duplicates kept).
	DependsOn []string `yaml:"depends-on,omitempty"`
	// UsesInterpreter runs the script file through the interpreter when true.
	UsesInterpreter bool `yaml:"use-python"`
	// IsLocal marks project-scoped scripts. Local scripts are appended on
	// merge instead of being merged into a same-named shared script.
	IsLocal bool `yaml:"is-local"`
	// Env is applied on top of the inherited environment for this invocation only.
	Env Env `yaml:"env,omitempty"`
	// Options are flags appended after the script path or command.
	Options Options `yaml:"options,omitempty"`
	// Discovered is true for scripts synthesized from a scripts directory.
	// Discovered scripts are never written back to a document.
	Discovered bool `yaml:"-"`
}

// UnmarshalYAML applies the document defaults (use-python and is-local are
// true unless stated otherwise) before decoding.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	type plain Definition
	p := plain{UsesInterpreter: true, IsLocal: true}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = Definition(p)
	return nil
}

// Path returns the script file of an interpreter script: the local or shared
// scripts directory joined with the name, suffixed with .py when needed.
// It is empty when the directory binding resolved to nothing.
func (d *Definition) Path(table *binding.Table) string {
	key := binding.KeyScripts
	if d.IsLocal {
		key = binding.KeyLocalScripts
	}
	dir := table.Value(key)
	if dir == "" {
		return ""
	}
	name := d.Name
	if !strings.HasSuffix(name, ScriptSuffix) {
		name += ScriptSuffix
	}
	return filepath.Join(dir, name)
}

// OptionsString renders Options for display: `--env "prod" --dry-run`.
func (d *Definition) OptionsString() string { return d.Options.String() }

// OptionArgs renders Options as an argument vector.
func (d *Definition) OptionArgs() []string { return d.Options.Args() }

// EnvSummary returns Env as sorted KEY=value strings.
func (d *Definition) EnvSummary() []string { return d.Env.Summary() }

// Runnable reports whether the script can be turned into a command line
// without knowing the interpreter.
func (d *Definition) Runnable() bool {
	return d.UsesInterpreter || strings.TrimSpace(d.Command) != ""
}

// Clone returns a deep copy.
func (d *Definition) Clone() *Definition {
	c := *d
	c.DependsOn = slices.Clone(d.DependsOn)
	c.Env = maps.Clone(d.Env)
	c.Options = d.Options.Clone()
	return &c
}

// merge folds other into d: Env and Options are unioned with other winning
// key by key, DependsOn is concatenated.
func (d *Definition) merge(other *Definition) {
	if len(other.Env) > 0 {
		if d.Env == nil {
			d.Env = make(Env, len(other.Env))
		}
		maps.Copy(d.Env, other.Env)
	}
	for _, opt := range other.Options.Clone() {
		d.Options.Set(opt.Flag, opt.Value)
	}
	d.DependsOn = append(d.DependsOn, other.DependsOn...)
}
