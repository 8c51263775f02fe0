// SPDX-License-Identifier: MPL-2.0

package binding

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Names of the variables bound by the injected bindings.
const (
	ConfigVar    = "UVEXTRAS_CONFIG"
	PythonDirVar = "UV_PYTHON_INSTALL_DIR"
	ToolDirVar   = "UV_TOOL_DIR"

	// ConfigFileName is the file name looked up by the self-config binding.
	ConfigFileName = "uvextras.yaml"
)

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
)

type (
	resolveState uint8

	// Prober asks an external tool where it keeps a managed location.
	// The returned text is used verbatim (trimmed) as the single candidate.
	Prober interface {
		Probe(key Key) (string, error)
	}

	// TableOption configures a Table at construction time.
	TableOption func(*tableConfig)

	tableConfig struct {
		lookupEnv  LookupFunc
		selfConfig *Binding
		prober     Prober
	}

	entry struct {
		binding  Binding
		declared bool
		state    resolveState
		value    string
		setInEnv bool
	}

	// Table holds every binding of one run and memoizes their resolution.
	// A Table is not safe for concurrent use.
	Table struct {
		entries   []*entry
		byKey     map[Key]*entry
		byName    map[string]*entry
		lookupEnv LookupFunc
	}
)

// WithLookupEnv replaces os.LookupEnv as the override channel.
func WithLookupEnv(fn LookupFunc) TableOption {
	return func(c *tableConfig) { c.lookupEnv = fn }
}

// WithSelfConfig replaces the default self-config binding.
func WithSelfConfig(b Binding) TableOption {
	return func(c *tableConfig) { c.selfConfig = &b }
}

// WithProber enables the package-manager backed bindings (pythondir, tooldir).
// Without a prober they only honour their override variables.
func WithProber(p Prober) TableOption {
	return func(c *tableConfig) { c.prober = p }
}

// SelfConfig returns the binding that locates the global configuration file.
// exeDir is the directory of the running executable; it is skipped when empty.
func SelfConfig(exeDir string) Binding {
	candidates := []string{
		"$XDG_CONFIG_HOME/uvextras/" + ConfigFileName,
		"$HOME/.config/uvextras/" + ConfigFileName,
	}
	if exeDir != "" {
		candidates = append(candidates, filepath.Join(exeDir, ConfigFileName))
	}
	candidates = append(candidates, "$PWD/"+ConfigFileName)

	return Binding{Bind: KeyConfig, Name: ConfigVar, Resolve: candidates}
}

// ExecutableDir returns the directory holding the running binary, or "".
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if real, err := filepath.EvalSymlinks(exe); err == nil {
		exe = real
	}
	return filepath.Dir(exe)
}

// NewTable builds a table from file-declared bindings. The self-config binding
// is prepended and the pythondir/tooldir bindings are appended. A declared
// binding with an injected key replaces the injected one at its position.
func NewTable(declared []Binding, opts ...TableOption) (*Table, error) {
	cfg := tableConfig{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(&cfg)
	}

	self := SelfConfig(ExecutableDir())
	if cfg.selfConfig != nil {
		self = *cfg.selfConfig
	}

	t := &Table{
		byKey:     make(map[Key]*entry),
		byName:    make(map[string]*entry),
		lookupEnv: cfg.lookupEnv,
	}

	injected := []*entry{{binding: self}}
	trailing := []*entry{
		{binding: managed(KeyPythonDir, PythonDirVar, cfg.prober)},
		{binding: managed(KeyToolDir, ToolDirVar, cfg.prober)},
	}

	var middle []*entry
	seen := make(map[Key]bool, len(declared))
	for _, b := range declared {
		if err := b.Bind.Validate(); err != nil {
			return nil, err
		}
		if seen[b.Bind] {
			return nil, &DuplicateBindingError{Value: b.Bind}
		}
		seen[b.Bind] = true
		b.Resolve = slices.Clone(b.Resolve)

		switch b.Bind {
		case KeyConfig:
			injected[0] = &entry{binding: b, declared: true}
		case KeyPythonDir, KeyToolDir:
			i := 0
			if b.Bind == KeyToolDir {
				i = 1
			}
			if b.Probe == nil {
				b.Probe = trailing[i].binding.Probe
			}
			trailing[i] = &entry{binding: b, declared: true}
		default:
			middle = append(middle, &entry{binding: b, declared: true})
		}
	}

	for _, e := range slices.Concat(injected, middle, trailing) {
		t.add(e)
	}
	return t, nil
}

func managed(key Key, name string, p Prober) Binding {
	b := Binding{Bind: key, Name: name}
	if p != nil {
		b.Probe = func() (string, error) { return p.Probe(key) }
	}
	return b
}

func (t *Table) add(e *entry) {
	t.entries = append(t.entries, e)
	t.byKey[e.binding.Bind] = e
	if e.binding.Name != "" {
		t.byName[e.binding.Name] = e
	}
}

// Get returns the resolved value of key, resolving it on first access.
// A legal key without a descriptor yields "".
func (t *Table) Get(key Key) (string, error) {
	res, err := t.Lookup(key)
	return res.Value, err
}

// Value is Get for rendering: an illegal or undeclared key yields "".
func (t *Table) Value(key Key) string {
	v, _ := t.Get(key)
	return v
}

// Lookup returns the full resolution of key.
func (t *Table) Lookup(key Key) (Resolution, error) {
	if err := key.Validate(); err != nil {
		return Resolution{}, err
	}
	e, ok := t.byKey[key]
	if !ok {
		return Resolution{Bind: key}, nil
	}
	t.resolve(e)
	return Resolution{Bind: key, Value: e.value, SetInEnvironment: e.setInEnv}, nil
}

// Set marks key as resolved to value. Subsequent Get calls return value.
func (t *Table) Set(key Key, value string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	e, ok := t.byKey[key]
	if !ok {
		e = &entry{binding: Binding{Bind: key}}
		t.add(e)
	}
	e.value = value
	e.setInEnv = false
	e.state = stateResolved
	return nil
}

// FindByBind returns the descriptor registered for key.
func (t *Table) FindByBind(key Key) (Binding, error) {
	if err := key.Validate(); err != nil {
		return Binding{}, err
	}
	e, ok := t.byKey[key]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %s", ErrBindingNotFound, key)
	}
	return e.binding, nil
}

// Bindings returns a copy of every descriptor in table order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.binding)
	}
	return out
}

// Declared returns the descriptors that came from a configuration document.
func (t *Table) Declared() []Binding {
	var out []Binding
	for _, e := range t.entries {
		if e.declared {
			b := e.binding
			b.Probe = nil
			out = append(out, b)
		}
	}
	return out
}

// Resolutions resolves every binding and returns the results in table order.
func (t *Table) Resolutions() []Resolution {
	out := make([]Resolution, 0, len(t.entries))
	for _, e := range t.entries {
		t.resolve(e)
		out = append(out, Resolution{Bind: e.binding.Bind, Value: e.value, SetInEnvironment: e.setInEnv})
	}
	return out
}

// Environ resolves every binding and returns NAME=value pairs, in table
// order, for bindings that have a variable name and a non-empty value.
func (t *Table) Environ() []string {
	var env []string
	for _, e := range t.entries {
		t.resolve(e)
		if e.binding.Name == "" || e.value == "" {
			continue
		}
		env = append(env, e.binding.Name+"="+e.value)
	}
	return env
}

func (t *Table) boundVar(name string) (string, bool) {
	e, ok := t.byName[name]
	if !ok {
		return "", false
	}
	t.resolve(e)
	if e.state != stateResolved {
		// still resolving: a reference cycle, treat as unset
		return "", false
	}
	return e.value, true
}

func (t *Table) resolve(e *entry) {
	if e.state != stateUnresolved {
		return
	}
	e.state = stateResolving

	r := Resolver{LookupEnv: t.lookupEnv, LookupVar: t.boundVar}
	res := r.Resolve(e.binding)

	e.value = res.Value
	e.setInEnv = res.SetInEnvironment
	e.state = stateResolved
}
