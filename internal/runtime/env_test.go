// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"slices"
	"testing"
)

func TestSanitizeEnv(t *testing.T) {
	t.Parallel()

	environ := []string{
		"PATH=/usr/bin",
		"VIRTUAL_ENV=/home/u/proj/.venv",
		"VIRTUAL_ENV_PROMPT=(proj)",
		"PYTHONPATH=/src",
		"MALFORMED",
		"HOME=/home/u",
	}

	got := SanitizeEnv(environ, []string{"VIRTUAL_ENV", "VIRTUAL_ENV_PROMPT", "PYTHONPATH"})
	want := []string{"PATH=/usr/bin", "MALFORMED", "HOME=/home/u"}
	if !slices.Equal(got, want) {
		t.Errorf("SanitizeEnv() = %v, want %v", got, want)
	}

	if got := SanitizeEnv(environ, nil); !slices.Equal(got, environ) {
		t.Errorf("SanitizeEnv(nil) = %v, want input unchanged", got)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	got := MergeEnv(
		[]string{"PATH=/usr/bin", "HOME=/home/u"},
		[]string{"UVEXTRAS_HOME=/home/u/.uvextras"},
		[]string{"PATH=/opt/bin", "EMPTY="},
	)
	want := []string{"PATH=/opt/bin", "HOME=/home/u", "UVEXTRAS_HOME=/home/u/.uvextras", "EMPTY="}
	if !slices.Equal(got, want) {
		t.Errorf("MergeEnv() = %v, want %v", got, want)
	}
}

func TestEnvToSlice(t *testing.T) {
	t.Parallel()

	got := EnvToSlice(map[string]string{"B": "2", "A": "1", "C": "has=equals"})
	want := []string{"A=1", "B=2", "C=has=equals"}
	if !slices.Equal(got, want) {
		t.Errorf("EnvToSlice() = %v, want %v", got, want)
	}
}

func TestValidateWorkDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := validateWorkDir(""); err != nil {
		t.Errorf("empty dir: %v", err)
	}
	if err := validateWorkDir(dir); err != nil {
		t.Errorf("existing dir: %v", err)
	}
	if err := validateWorkDir(dir + "/missing"); err == nil {
		t.Error("missing dir should fail")
	}
}
