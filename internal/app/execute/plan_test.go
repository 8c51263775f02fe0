// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/uvextras/uvextras/internal/binding"
	"github.com/uvextras/uvextras/internal/config"
	"github.com/uvextras/uvextras/internal/testutil"
	"github.com/uvextras/uvextras/internal/testutil/scriptfiletest"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

// newStore builds a store whose shared and local scripts directories exist.
func newStore(t *testing.T, scripts ...*scriptfile.Definition) (*scriptfile.Store, string, string) {
	t.Helper()

	shared := testutil.MustEvalSymlinks(t, t.TempDir())
	local := testutil.MustEvalSymlinks(t, t.TempDir())
	table, err := binding.NewTable([]binding.Binding{
		{Bind: binding.KeyScripts, Name: "UVEXTRAS_SCRIPTS", Resolve: []string{shared}},
		{Bind: binding.KeyLocalScripts, Name: "UVEXTRAS_LOCALSCRIPTS", Resolve: []string{local}},
	},
		binding.WithLookupEnv(testutil.LookupMap(nil)),
		binding.WithSelfConfig(binding.Binding{Bind: binding.KeyConfig, Name: binding.ConfigVar}),
	)
	if err != nil {
		t.Fatalf("NewTable() error: %v", err)
	}
	return scriptfile.NewStore(table, scripts, nil), shared, local
}

func staticEnviron(env ...string) PlannerOption {
	return WithEnviron(func() []string { return env })
}

func TestPlan_UnknownDependencyIsSkipped(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t,
		scriptfiletest.NewTestScript("build", scriptfiletest.Raw(), scriptfiletest.WithCommand("uv build")),
		scriptfiletest.NewTestScript("deploy", scriptfiletest.WithDependsOn("build", "test")),
	)

	plan, err := NewPlanner(store, config.DefaultSettings(), staticEnviron()).Plan("deploy", nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if got := plan.Names(); !slices.Equal(got, []string{"build", "deploy"}) {
		t.Errorf("Names() = %v, want [build deploy]", got)
	}
	if len(plan.Diagnostics) != 1 || plan.Diagnostics[0].Code != scriptfile.CodeUnknownDependency {
		t.Errorf("Diagnostics = %v, want one unknown dependency warning", plan.Diagnostics)
	}
	if plan.Steps[0].Root || !plan.Steps[1].Root {
		t.Error("only the last step should be the root")
	}
}

func TestPlan_OneLevelWithoutDedup(t *testing.T) {
	t.Parallel()

	raw := func(name string, deps ...string) *scriptfile.Definition {
		return scriptfiletest.NewTestScript(name, scriptfiletest.Raw(),
			scriptfiletest.WithCommand("echo "+name), scriptfiletest.WithDependsOn(deps...))
	}
	store, _, _ := newStore(t,
		raw("lint", "fmt"),
		raw("fmt"),
		raw("all", "lint", "lint", "fmt"),
	)

	plan, err := NewPlanner(store, config.DefaultSettings(), staticEnviron()).Plan("all", nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	want := []string{"lint", "lint", "fmt", "all"}
	if got := plan.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestPlan_UnknownScript(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t)
	_, err := NewPlanner(store, config.DefaultSettings()).Plan("nope", nil)

	var unknown *UnknownScriptError
	if !errors.As(err, &unknown) || unknown.Name != "nope" {
		t.Fatalf("Plan() error = %v, want UnknownScriptError", err)
	}
	if !errors.Is(err, ErrUnknownScript) {
		t.Error("error should wrap ErrUnknownScript")
	}
}

func TestPlan_Argv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  *scriptfile.Definition
		environ []string
		extra   []string
		want    func(shared, local string) []string
	}{
		{
			name:   "local interpreter script uses the default interpreter",
			script: scriptfiletest.NewTestScript("lint"),
			want: func(_, local string) []string {
				return []string{"uv", "run", filepath.Join(local, "lint.py")}
			},
		},
		{
			name:   "shared interpreter script with its own command",
			script: scriptfiletest.NewTestScript("gen.py", scriptfiletest.Shared(), scriptfiletest.WithCommand("python -X dev")),
			want: func(shared, _ string) []string {
				return []string{"python", "-X", "dev", filepath.Join(shared, "gen.py")}
			},
		},
		{
			name: "options become real arguments",
			script: scriptfiletest.NewTestScript("deploy", scriptfiletest.Raw(),
				scriptfiletest.WithCommand("./deploy.sh"),
				scriptfiletest.WithOption("env", "prod stage"),
				scriptfiletest.WithFlag("dry-run")),
			want: func(_, _ string) []string {
				return []string{"./deploy.sh", "--env", "prod stage", "--dry-run"}
			},
		},
		{
			name:    "quoting and variables in the command",
			script:  scriptfiletest.NewTestScript("say", scriptfiletest.Raw(), scriptfiletest.WithCommand(`echo "a b" $TOKEN '$TOKEN'`)),
			environ: []string{"TOKEN=from-env"},
			want: func(_, _ string) []string {
				return []string{"echo", "a b", "from-env", "$TOKEN"}
			},
		},
		{
			name:   "binding variables expand",
			script: scriptfiletest.NewTestScript("ls", scriptfiletest.Raw(), scriptfiletest.WithCommand("ls $UVEXTRAS_SCRIPTS")),
			want: func(shared, _ string) []string {
				return []string{"ls", shared}
			},
		},
		{
			name:   "extra args are appended verbatim",
			script: scriptfiletest.NewTestScript("test", scriptfiletest.Raw(), scriptfiletest.WithCommand("pytest"), scriptfiletest.WithFlag("quiet")),
			extra:  []string{"-k", "not slow", "$HOME"},
			want: func(_, _ string) []string {
				return []string{"pytest", "--quiet", "-k", "not slow", "$HOME"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, shared, local := newStore(t, tt.script)
			plan, err := NewPlanner(store, config.DefaultSettings(), staticEnviron(tt.environ...)).Plan(tt.script.Name, tt.extra)
			if err != nil {
				t.Fatalf("Plan() error: %v", err)
			}
			step := plan.Steps[len(plan.Steps)-1]
			if !step.Runnable() {
				t.Fatalf("step not runnable: %s", step.SkipReason)
			}
			if want := tt.want(shared, local); !slices.Equal(step.Invocation.Argv, want) {
				t.Errorf("Argv = %q, want %q", step.Invocation.Argv, want)
			}
		})
	}
}

func TestPlan_ExtraArgsOnlyOnRoot(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t,
		scriptfiletest.NewTestScript("build", scriptfiletest.Raw(), scriptfiletest.WithCommand("uv build")),
		scriptfiletest.NewTestScript("release", scriptfiletest.Raw(), scriptfiletest.WithCommand("twine upload"), scriptfiletest.WithDependsOn("build")),
	)

	plan, err := NewPlanner(store, config.DefaultSettings(), staticEnviron()).Plan("release", []string{"--repository", "testpypi"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if got := plan.Steps[0].Invocation.Argv; !slices.Equal(got, []string{"uv", "build"}) {
		t.Errorf("dependency Argv = %q", got)
	}
	if got := plan.Steps[1].Invocation.Argv; !slices.Equal(got, []string{"twine", "upload", "--repository", "testpypi"}) {
		t.Errorf("root Argv = %q", got)
	}
}

func TestPlan_NonRunnableSteps(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t,
		scriptfiletest.NewTestScript("empty", scriptfiletest.Raw()),
		scriptfiletest.NewTestScript("blank", scriptfiletest.Raw(), scriptfiletest.WithCommand("$UNSET")),
		scriptfiletest.NewTestScript("all", scriptfiletest.Raw(), scriptfiletest.WithCommand("true"), scriptfiletest.WithDependsOn("empty", "blank")),
	)

	plan, err := NewPlanner(store, config.DefaultSettings(), staticEnviron()).Plan("all", nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(plan.Steps) != 3 {
		t.Fatalf("Steps = %v, want 3", plan.Names())
	}
	for _, step := range plan.Steps[:2] {
		if step.Runnable() || step.SkipReason == "" {
			t.Errorf("step %s should be skipped with a reason", step.Name())
		}
	}
	if got := len(plan.Runnable()); got != 1 {
		t.Errorf("Runnable() = %d steps, want 1", got)
	}
}

func TestPlan_UnresolvedScriptsDirectory(t *testing.T) {
	t.Parallel()

	table, err := binding.NewTable(nil,
		binding.WithLookupEnv(testutil.LookupMap(nil)),
		binding.WithSelfConfig(binding.Binding{Bind: binding.KeyConfig}),
	)
	if err != nil {
		t.Fatal(err)
	}
	store := scriptfile.NewStore(table, []*scriptfile.Definition{scriptfiletest.NewTestScript("lint")}, nil)

	plan, err := NewPlanner(store, config.DefaultSettings(), staticEnviron()).Plan("lint", nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if plan.Steps[0].Runnable() {
		t.Error("interpreter script without a scripts directory should not be runnable")
	}
	if len(plan.Diagnostics) != 1 || plan.Diagnostics[0].Code != scriptfile.CodeUnresolvedDirectory {
		t.Errorf("Diagnostics = %v, want one unresolved directory warning", plan.Diagnostics)
	}
}

func TestPlan_InvalidCommand(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t, scriptfiletest.NewTestScript("bad", scriptfiletest.Raw(), scriptfiletest.WithCommand(`echo "unterminated`)))
	_, err := NewPlanner(store, config.DefaultSettings()).Plan("bad", nil)
	if !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("Plan() error = %v, want ErrInvalidCommand", err)
	}
}

func TestPlan_Environment(t *testing.T) {
	t.Parallel()

	store, shared, _ := newStore(t, scriptfiletest.NewTestScript("env", scriptfiletest.Raw(),
		scriptfiletest.WithCommand("env"),
		scriptfiletest.WithEnv("PATH", "/override"),
		scriptfiletest.WithEnv("APP_MODE", "test")))

	environ := staticEnviron(
		"PATH=/usr/bin",
		"VIRTUAL_ENV=/tmp/venv",
		"PYTHONPATH=/tmp/lib",
		"UVEXTRAS_SCRIPTS=/stale",
		"KEEP=1",
	)
	plan, err := NewPlanner(store, config.DefaultSettings(), environ).Plan("env", nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	env := plan.Steps[0].Invocation.Env
	for _, want := range []string{"PATH=/override", "KEEP=1", "APP_MODE=test", "UVEXTRAS_SCRIPTS=" + shared} {
		if !slices.Contains(env, want) {
			t.Errorf("Env missing %q: %v", want, env)
		}
	}
	for _, dropped := range []string{"VIRTUAL_ENV=/tmp/venv", "PYTHONPATH=/tmp/lib", "UVEXTRAS_SCRIPTS=/stale"} {
		if slices.Contains(env, dropped) {
			t.Errorf("Env should not contain %q", dropped)
		}
	}
	if got := slices.Index(env, "PATH=/override"); got != 0 {
		t.Errorf("overridden PATH should keep its position, got index %d", got)
	}
}

func TestPlan_CommandSeesInvocationEnv(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t, scriptfiletest.NewTestScript("greet", scriptfiletest.Raw(),
		scriptfiletest.WithCommand("echo $GREETING $VIRTUAL_ENV $PYTHONPATH $KEEP"),
		scriptfiletest.WithEnv("GREETING", "hi")))

	environ := staticEnviron("PATH=/bin", "VIRTUAL_ENV=/tool/venv", "PYTHONPATH=/tool/lib", "KEEP=kept")
	plan, err := NewPlanner(store, config.DefaultSettings(), environ).Plan("greet", nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	// script env applies, sanitized variables expand to nothing
	if got, want := plan.Steps[0].Invocation.Argv, []string{"echo", "hi", "kept"}; !slices.Equal(got, want) {
		t.Errorf("Argv = %q, want %q", got, want)
	}
}

func TestPlan_WorkDir(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t, scriptfiletest.NewTestScript("pwd", scriptfiletest.Raw(), scriptfiletest.WithCommand("pwd")))
	dir := t.TempDir()
	plan, err := NewPlanner(store, config.DefaultSettings(), WithWorkDir(dir), staticEnviron()).Plan("pwd", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := plan.Steps[0].Invocation.Dir; got != dir {
		t.Errorf("Dir = %q, want %q", got, dir)
	}
}
