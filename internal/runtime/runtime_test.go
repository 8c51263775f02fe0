// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"slices"
	"testing"
)

func TestRuntimeTypeValidate(t *testing.T) {
	t.Parallel()

	for _, typ := range []RuntimeType{RuntimeTypeNative, RuntimeTypeVirtual} {
		if err := typ.Validate(); err != nil {
			t.Errorf("%s.Validate() = %v", typ, err)
		}
	}

	err := RuntimeType("container").Validate()
	if !errors.Is(err, ErrInvalidRuntimeType) {
		t.Errorf("Validate() = %v, want ErrInvalidRuntimeType", err)
	}
}

func TestBuildRegistry(t *testing.T) {
	t.Parallel()

	reg := BuildRegistry(BuildRegistryOptions{})
	if got := reg.Types(); !slices.Equal(got, []RuntimeType{RuntimeTypeNative, RuntimeTypeVirtual}) {
		t.Errorf("Types() = %v", got)
	}

	for _, typ := range reg.Types() {
		rt, err := reg.Get(typ)
		if err != nil {
			t.Fatalf("Get(%s) error: %v", typ, err)
		}
		if rt.Name() != typ.String() {
			t.Errorf("Get(%s).Name() = %q", typ, rt.Name())
		}
	}
}

func TestRegistryGet_Errors(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if _, err := reg.Get(RuntimeTypeNative); !errors.Is(err, ErrRuntimeNotRegistered) {
		t.Errorf("Get(unregistered) = %v, want ErrRuntimeNotRegistered", err)
	}
	if _, err := reg.Get("docker"); !errors.Is(err, ErrInvalidRuntimeType) {
		t.Errorf("Get(invalid) = %v, want ErrInvalidRuntimeType", err)
	}
}

func TestInvocationCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		argv []string
		want string
	}{
		{name: "plain words", argv: []string{"uv", "run", "build.py"}, want: "uv run build.py"},
		{name: "space is quoted", argv: []string{"echo", "a b"}, want: "echo 'a b'"},
		{name: "variable is not expanded", argv: []string{"echo", "$HOME"}, want: "echo '$HOME'"},
		{name: "empty argument", argv: []string{"x", ""}, want: "x ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv := &Invocation{Argv: tt.argv}
			if got := inv.CommandLine(); got != tt.want {
				t.Errorf("CommandLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvocationCommandLine_FallsBackForUnquotable(t *testing.T) {
	t.Parallel()

	inv := &Invocation{Argv: []string{"echo", "a\x00b"}}
	if got := inv.CommandLine(); got != `"echo" "a\x00b"` {
		t.Errorf("CommandLine() = %q", got)
	}
	if _, err := QuoteArgv(inv.Argv); err == nil {
		t.Error("QuoteArgv() should fail for NUL")
	}
}
