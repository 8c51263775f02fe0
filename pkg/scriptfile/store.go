// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/uvextras/uvextras/internal/binding"
)

// MergedFromLocalDescription describes scripts discovered in the local scripts directory.
const MergedFromLocalDescription = "merged from local"

type (
	// Store is one configuration: its bindings, its scripts in insertion
	// order and the raw settings section. A Store is not safe for concurrent use.
	Store struct {
		table    *binding.Table
		scripts  []*Definition
		settings map[string]any
		path     string
	}

	// document is the on-disk shape of a configuration file.
	document struct {
		Settings map[string]any   `yaml:"settings,omitempty"`
		Envvars  []binding.Binding `yaml:"envvars,omitempty"`
		Scripts  []*Definition     `yaml:"scripts,omitempty"`
	}
)

// NewStore assembles a store from parts. scripts are used as is.
func NewStore(table *binding.Table, scripts []*Definition, settings map[string]any) *Store {
	return &Store{table: table, scripts: scripts, settings: settings}
}

// Table returns the binding table owned by the store.
func (s *Store) Table() *binding.Table { return s.table }

// Path returns the file the store was parsed from, if any.
func (s *Store) Path() string { return s.path }

// Settings returns a copy of the document's settings section.
func (s *Store) Settings() map[string]any { return maps.Clone(s.settings) }

// Scripts returns the scripts in insertion order. The slice is a copy; the
// definitions are shared.
func (s *Store) Scripts() []*Definition { return slices.Clone(s.scripts) }

// SortedScripts returns the scripts ordered by name (stable for duplicates).
func (s *Store) SortedScripts() []*Definition {
	out := slices.Clone(s.scripts)
	slices.SortStableFunc(out, func(a, b *Definition) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Find returns the first script named name, or nil.
func (s *Store) Find(name string) *Definition {
	i := slices.IndexFunc(s.scripts, func(d *Definition) bool { return d.Name == name })
	if i < 0 {
		return nil
	}
	return s.scripts[i]
}

// FindAll returns every script named name, in insertion order.
func (s *Store) FindAll(name string) []*Definition {
	var out []*Definition
	for _, d := range s.scripts {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// Merge layers other on top of s. Non-local scripts are merged into the
// first same-named script of s; when there is none, a merge_target_missing
// warning is logged and returned and the script is dropped. Local scripts
// are appended, even when the name already exists.
func (s *Store) Merge(other *Store) []Diagnostic {
	var diags []Diagnostic

	for _, incoming := range slices.Clone(other.scripts) {
		if incoming.IsLocal {
			s.scripts = append(s.scripts, incoming.Clone())
			continue
		}

		target := s.Find(incoming.Name)
		if target == nil {
			d := NewWarning(CodeMergeTargetMissing, incoming.Name, "merge: script %s not found", incoming.Name)
			d.Path = other.path
			d.Log()
			diags = append(diags, d)
			continue
		}
		target.merge(incoming)
	}

	return diags
}

// MergeSettings overlays other's settings section on s's, key by key.
func (s *Store) MergeSettings(other *Store) {
	if len(other.settings) == 0 {
		return
	}
	if s.settings == nil {
		s.settings = make(map[string]any, len(other.settings))
	}
	maps.Copy(s.settings, other.settings)
}

// MergeScripts registers every *.py file directly inside dir whose name is
// not yet known as a local interpreter script described by desc. It is a
// no-op when dir is empty, missing or not a directory.
func (s *Store) MergeScripts(dir, desc string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		slog.Debug("scripts directory not available", "dir", dir)
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read scripts directory %s: %w", dir, err)
	}

	// os.ReadDir sorts by file name.
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ScriptSuffix) {
			continue
		}
		if !isRegularFile(filepath.Join(dir, e.Name())) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ScriptSuffix)
		if name == "" || s.Find(name) != nil {
			continue
		}
		s.scripts = append(s.scripts, &Definition{
			Name:            name,
			Description:     desc,
			UsesInterpreter: true,
			IsLocal:         true,
			Discovered:      true,
		})
		slog.Debug("discovered script", "name", name, "dir", dir)
	}
	return nil
}

// Marshal encodes the store as a configuration document: the settings, the
// bindings declared by the document and every script that was not discovered.
func (s *Store) Marshal() ([]byte, error) {
	doc := document{Settings: s.settings}
	if s.table != nil {
		doc.Envvars = s.table.Declared()
	}
	for _, d := range s.scripts {
		if !d.Discovered {
			doc.Scripts = append(doc.Scripts, d)
		}
	}

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return []byte(sb.String()), nil
}

// isRegularFile follows symlinks.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
