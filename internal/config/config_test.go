// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"

	"github.com/uvextras/uvextras/internal/binding"
	"github.com/uvextras/uvextras/internal/issue"
	"github.com/uvextras/uvextras/internal/testutil"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

const globalDoc = `
settings:
  interpreter: uv run --quiet
envvars:
  - bind: localdir
    name: UVEXTRAS_LOCALDIR
    resolve: ["$PWD/.uvextras"]
  - bind: localconfig
    name: UVEXTRAS_LOCALCONFIG
    resolve: ["$UVEXTRAS_LOCALDIR/uvextras.yaml"]
  - bind: localscripts
    name: UVEXTRAS_LOCALSCRIPTS
    resolve: ["$UVEXTRAS_LOCALDIR/scripts"]
scripts:
  - name: build
    cmd: uv build
    use-python: false
    is-local: false
    options: {out-dir: dist}
  - name: fmt
    cmd: ruff format
    use-python: false
    is-local: false
`

const localDoc = `
settings:
  runtime: virtual
envvars:
  - bind: home
    name: IGNORED_HOME
    resolve: ["/"]
scripts:
  - name: build
    is-local: false
    options: {out-dir: wheels, verbose: null}
  - name: publish
    depends-on: [build]
`

type fixture struct {
	home, project, global string
	env                   map[string]string
}

// newFixture lays out a global document and a project with a local
// configuration and scripts directory.
func newFixture(t *testing.T) fixture {
	t.Helper()

	home := testutil.MustEvalSymlinks(t, t.TempDir())
	project := testutil.MustEvalSymlinks(t, t.TempDir())
	global := filepath.Join(home, "global.yaml")

	testutil.MustWriteFile(t, global, globalDoc)
	testutil.MustMkdirAll(t, filepath.Join(project, ".uvextras", "scripts"), 0o755)
	testutil.MustWriteFile(t, filepath.Join(project, ".uvextras", "uvextras.yaml"), localDoc)
	testutil.MustWriteFile(t, filepath.Join(project, ".uvextras", "scripts", "lint.py"), "print('lint')\n")
	testutil.MustWriteFile(t, filepath.Join(project, ".uvextras", "scripts", "publish.py"), "print('publish')\n")

	return fixture{
		home:    home,
		project: project,
		global:  global,
		env:     map[string]string{"HOME": home, "PWD": project},
	}
}

func (f fixture) load(t *testing.T, opts LoadOptions) (*Result, error) {
	t.Helper()
	opts.LookupEnv = testutil.LookupMap(f.env)
	return NewLoader(opts).Load(context.Background())
}

func TestLoad_GlobalAndLocal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.load(t, LoadOptions{ConfigFilePath: f.global})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if res.ConfigPath != f.global {
		t.Errorf("ConfigPath = %q, want %q", res.ConfigPath, f.global)
	}
	wantLocal := filepath.Join(f.project, ".uvextras", "uvextras.yaml")
	if res.LocalConfigPath != wantLocal {
		t.Errorf("LocalConfigPath = %q, want %q", res.LocalConfigPath, wantLocal)
	}
	if got := res.Store.Table().Value(binding.KeyConfig); got != f.global {
		t.Errorf("config binding = %q, want the loaded path", got)
	}

	build := res.Store.Find("build")
	if got := build.OptionsString(); got != `--out-dir "wheels" --verbose` {
		t.Errorf("merged build options = %s", got)
	}

	publish := res.Store.Find("publish")
	if publish == nil || publish.Discovered {
		t.Fatalf("publish should come from the local document, got %+v", publish)
	}
	lint := res.Store.Find("lint")
	if lint == nil || !lint.Discovered || lint.Description != scriptfile.MergedFromLocalDescription {
		t.Errorf("lint should be discovered from the local scripts dir, got %+v", lint)
	}

	if got := res.Store.Table().Value(binding.KeyHome); got != "" {
		t.Errorf("local envvars must be ignored, home = %q", got)
	}

	if res.Settings.Runtime != RuntimeVirtual {
		t.Errorf("Runtime = %q, want local override virtual", res.Settings.Runtime)
	}
	if res.Settings.Interpreter != "uv run --quiet" {
		t.Errorf("Interpreter = %q, want global value", res.Settings.Interpreter)
	}
	if !slices.Equal(res.Settings.SanitizeEnv, defaultSanitizeEnv) {
		t.Errorf("SanitizeEnv = %v, want defaults", res.Settings.SanitizeEnv)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v", res.Diagnostics)
	}
}

func TestLoad_SelfConfigBinding(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	xdg := filepath.Join(f.home, "xdg")
	testutil.MustMkdirAll(t, filepath.Join(xdg, "uvextras"), 0o755)
	found := filepath.Join(xdg, "uvextras", binding.ConfigFileName)
	testutil.MustWriteFile(t, found, globalDoc)
	f.env["XDG_CONFIG_HOME"] = xdg

	res, err := f.load(t, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.ConfigPath != found {
		t.Errorf("ConfigPath = %q, want %q", res.ConfigPath, found)
	}

	// the override variable beats every candidate
	f.env[binding.ConfigVar] = f.global
	res, err = f.load(t, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.ConfigPath != f.global {
		t.Errorf("ConfigPath = %q, want override %q", res.ConfigPath, f.global)
	}
	got, err := res.Store.Table().Lookup(binding.KeyConfig)
	if err != nil {
		t.Fatalf("Lookup(config) error: %v", err)
	}
	if got.Value != f.global || !got.SetInEnvironment {
		t.Errorf("Lookup(config) = %+v, want %q set in environment", got, f.global)
	}

	// --file is not an environment override
	delete(f.env, binding.ConfigVar)
	res, err = f.load(t, LoadOptions{ConfigFilePath: f.global})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got, _ = res.Store.Table().Lookup(binding.KeyConfig)
	if got.Value != f.global || got.SetInEnvironment {
		t.Errorf("Lookup(config) with --file = %+v, want %q not set in environment", got, f.global)
	}
}

func TestLoad_BuiltinDefault(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	env := map[string]string{"HOME": empty, "PWD": empty}
	res, err := NewLoader(LoadOptions{LookupEnv: testutil.LookupMap(env)}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if res.ConfigPath != "" || res.Store.Path() != BuiltinPath {
		t.Errorf("ConfigPath = %q, store path = %q, want builtin", res.ConfigPath, res.Store.Path())
	}
	for _, name := range []string{"create", "gitignore", "enable-dev"} {
		if res.Store.Find(name) == nil {
			t.Errorf("builtin script %q missing", name)
		}
	}
	if res.Settings.Interpreter != DefaultInterpreter || res.Settings.PackageManager != DefaultPackageManager {
		t.Errorf("Settings = %+v, want defaults", res.Settings)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.load(t, LoadOptions{ConfigFilePath: filepath.Join(f.home, "nope.yaml")})
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit path")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist: %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.ConfigNotFoundId {
		t.Errorf("error = %#v, want ConfigNotFound actionable error", err)
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		global string
		local  string
	}{
		{name: "invalid global", global: "scripts:\n  - desc: no name\n"},
		{name: "unknown field", global: "scripts:\n  - name: x\n    command: y\n"},
		{name: "invalid local", global: globalDoc, local: "envvars:\n  - bind: nowhere\n    name: X\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			testutil.MustWriteFile(t, f.global, tt.global)
			if tt.local != "" {
				testutil.MustWriteFile(t, filepath.Join(f.project, ".uvextras", "uvextras.yaml"), tt.local)
			}

			_, err := f.load(t, LoadOptions{ConfigFilePath: f.global})
			if !errors.Is(err, scriptfile.ErrConfigParse) {
				t.Fatalf("Load() error = %v, want ErrConfigParse", err)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.IssueID != issue.ConfigParseErrorId {
				t.Errorf("error = %v, want ConfigParseError actionable error", err)
			}
		})
	}
}

func TestLoad_MergeTargetMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	testutil.MustWriteFile(t, filepath.Join(f.project, ".uvextras", "uvextras.yaml"),
		"scripts:\n  - name: ghost\n    is-local: false\n")

	res, err := f.load(t, LoadOptions{ConfigFilePath: f.global})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != scriptfile.CodeMergeTargetMissing {
		t.Errorf("Diagnostics = %v, want one MergeTargetMissing", res.Diagnostics)
	}
	if res.Store.Find("ghost") != nil {
		t.Error("a non-local script without a target must be dropped")
	}
}

func TestLoad_FlagsOverrideDocument(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.Bool("keep-going", false, "")
	flags.String("runtime", "native", "")
	flags.BoolP("verbose", "v", false, "")
	if err := flags.Parse([]string{"--keep-going", "-v"}); err != nil {
		t.Fatal(err)
	}

	res, err := f.load(t, LoadOptions{ConfigFilePath: f.global, Flags: flags})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !res.Settings.KeepGoing || !res.Settings.Verbose {
		t.Errorf("Settings = %+v, want keep-going and verbose from flags", res.Settings)
	}
	// an unchanged flag does not shadow the document
	if res.Settings.Runtime != RuntimeVirtual {
		t.Errorf("Runtime = %q, want document value virtual", res.Settings.Runtime)
	}
}

func TestLoad_EnvironmentOverridesDocument(t *testing.T) {
	f := newFixture(t)
	t.Setenv("UVEXTRAS_INTERPRETER", "python3")
	t.Setenv("UVEXTRAS_SANITIZE_ENV", "PYTHONHOME,PYTHONPATH")

	res, err := f.load(t, LoadOptions{ConfigFilePath: f.global})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Settings.Interpreter != "python3" {
		t.Errorf("Interpreter = %q, want env override", res.Settings.Interpreter)
	}
	if !slices.Equal(res.Settings.SanitizeEnv, []string{"PYTHONHOME", "PYTHONPATH"}) {
		t.Errorf("SanitizeEnv = %v", res.Settings.SanitizeEnv)
	}
}

func TestLoad_InvalidRuntimeFromEnvironment(t *testing.T) {
	f := newFixture(t)
	t.Setenv("UVEXTRAS_RUNTIME", "container")

	_, err := f.load(t, LoadOptions{ConfigFilePath: f.global})
	if !errors.Is(err, ErrInvalidConfigRuntimeMode) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfigRuntimeMode", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.InvalidRuntimeModeId {
		t.Errorf("error = %v, want InvalidRuntimeMode actionable error", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(LoadOptions{}).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadFunc(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := LoadFunc(Load).Load(context.Background(), LoadOptions{
		ConfigFilePath: f.global,
		LookupEnv:      testutil.LookupMap(f.env),
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Store.Find("build") == nil {
		t.Error("LoadFunc(Load) should load the document")
	}
}

func TestDefaultDocument(t *testing.T) {
	t.Parallel()

	doc := DefaultDocument()
	doc[0] = 'X'
	if DefaultDocument()[0] == 'X' {
		t.Error("DefaultDocument() must return a copy")
	}

	store, err := scriptfile.ParseBytes(DefaultDocument(), BuiltinPath)
	if err != nil {
		t.Fatalf("builtin document does not parse: %v", err)
	}
	if len(store.Table().Declared()) != 5 {
		t.Errorf("builtin document declares %d bindings, want 5", len(store.Table().Declared()))
	}
}
