// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// SanitizeEnv returns environ without the entries whose name is in drop.
// Entries without a separator are kept unchanged.
func SanitizeEnv(environ, drop []string) []string {
	result := make([]string, 0, len(environ))
	for _, entry := range environ {
		name, _, ok := strings.Cut(entry, "=")
		if ok && slices.Contains(drop, name) {
			continue
		}
		result = append(result, entry)
	}
	return result
}

// MergeEnv layers environments in order; a later entry for a name replaces an
// earlier one in place, new names are appended.
func MergeEnv(layers ...[]string) []string {
	var result []string
	index := make(map[string]int)
	for _, layer := range layers {
		for _, entry := range layer {
			name, _, ok := strings.Cut(entry, "=")
			if !ok {
				continue
			}
			if i, seen := index[name]; seen {
				result[i] = entry
				continue
			}
			index[name] = len(result)
			result = append(result, entry)
		}
	}
	return result
}

// EnvToSlice converts an environment map to "KEY=VALUE" entries sorted by key.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		result = append(result, k+"="+env[k])
	}
	return result
}

// validateWorkDir validates that a working directory exists and is accessible.
// This provides a better error message than letting exec fail with a cryptic error.
func validateWorkDir(dir string) error {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied: %s", dir)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	return nil
}
