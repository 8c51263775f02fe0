// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// Option is a single command-line flag passed to a script.
	// A nil Value renders as a presence-only flag.
	Option struct {
		Flag  string
		Value *string
	}

	// Options keeps flags in the order they were declared.
	Options []Option

	// Env maps variable names to values for a single invocation.
	Env map[string]string
)

// StringValue returns a pointer to v, for building Options literals.
func StringValue(v string) *string { return &v }

// Get returns the option named flag.
func (o Options) Get(flag string) (Option, bool) {
	i := slices.IndexFunc(o, func(opt Option) bool { return opt.Flag == flag })
	if i < 0 {
		return Option{}, false
	}
	return o[i], true
}

// Set overrides flag in place, or appends it when it is new.
func (o *Options) Set(flag string, value *string) {
	if value != nil {
		value = StringValue(*value)
	}
	for i := range *o {
		if (*o)[i].Flag == flag {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Option{Flag: flag, Value: value})
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, 0, len(o))
	for _, opt := range o {
		if opt.Value != nil {
			opt.Value = StringValue(*opt.Value)
		}
		out = append(out, opt)
	}
	return out
}

// String renders the options as `--flag "value"` or `--flag`, space separated.
// Values are not escaped. It is meant for display; invocations use Args.
func (o Options) String() string {
	parts := make([]string, 0, len(o))
	for _, opt := range o {
		if opt.Value == nil {
			parts = append(parts, "--"+opt.Flag)
			continue
		}
		parts = append(parts, fmt.Sprintf("--%s \"%s\"", opt.Flag, *opt.Value))
	}
	return strings.Join(parts, " ")
}

// Args renders the options as an argument vector: --flag, value, ...
func (o Options) Args() []string {
	args := make([]string, 0, len(o)*2)
	for _, opt := range o {
		args = append(args, "--"+opt.Flag)
		if opt.Value != nil {
			args = append(args, *opt.Value)
		}
	}
	return args
}

// UnmarshalYAML decodes a mapping while keeping key order. Null values
// (`dry-run:` or `dry-run: null`) become presence-only flags.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*o = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}

	out := make(Options, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: option %q must have a scalar value", val.Line, key.Value)
		}
		opt := Option{Flag: key.Value}
		if val.ShortTag() != "!!null" {
			opt.Value = StringValue(val.Value)
		}
		out = append(out, opt)
	}
	*o = out
	return nil
}

// MarshalYAML encodes the options as an ordered mapping.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, opt := range o {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Flag}
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if opt.Value != nil {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: *opt.Value}
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// Summary returns the entries as sorted KEY=value strings.
func (e Env) Summary() []string {
	out := make([]string, 0, len(e))
	for _, k := range slices.Sorted(maps.Keys(e)) {
		out = append(out, k+"="+e[k])
	}
	return out
}

// UnmarshalYAML accepts any scalar value (numbers and booleans keep their
// literal spelling).
func (e *Env) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*e = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: env must be a mapping", node.Line)
	}

	out := make(Env, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: env %q must have a scalar value", val.Line, key.Value)
		}
		if val.ShortTag() == "!!null" {
			out[key.Value] = ""
			continue
		}
		out[key.Value] = val.Value
	}
	*e = out
	return nil
}
