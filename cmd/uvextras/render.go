// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/uvextras/uvextras/internal/binding"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

const checkmark = "✓"

type (
	// pathPrefix replaces dir at the start of a path with label.
	pathPrefix struct {
		dir   string
		label string
		style lipgloss.Style
	}

	// pathAbbreviator shortens absolute paths for display. The first matching
	// prefix wins.
	pathAbbreviator struct {
		prefixes []pathPrefix
	}
)

// newTable creates a rounded table with the shared header and cell styles.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		BorderRow(true).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
}

// renderTable renders t under a title line.
func renderTable(title string, t *table.Table) string {
	return TitleStyle.Render(title) + "\n" + t.Render() + "\n"
}

// checkmarkIf returns a styled checkmark when pred holds.
func checkmarkIf(pred bool) string {
	if pred {
		return SuccessStyle.Render(checkmark)
	}
	return ""
}

// newLocationAbbreviator tags paths below the given binding keys with
// [key] and paths below home with $HOME.
func newLocationAbbreviator(t *binding.Table, home string, keys ...binding.Key) pathAbbreviator {
	var a pathAbbreviator
	for _, key := range keys {
		if dir := t.Value(key); dir != "" {
			a.prefixes = append(a.prefixes, pathPrefix{dir: dir, label: "[" + string(key) + "]", style: locationTagStyle})
		}
	}
	if home != "" {
		a.prefixes = append(a.prefixes, pathPrefix{dir: home, label: "$HOME", style: envVarStyle})
	}
	return a
}

// Abbreviate returns path with its first matching prefix replaced. A
// binding directory itself is not replaced, so the row that defines it
// stays readable; $HOME is.
func (a pathAbbreviator) Abbreviate(path string) string {
	if path == "" {
		return ""
	}
	for _, p := range a.prefixes {
		rest, ok := cutDir(path, p.dir)
		if !ok || (rest == "" && p.label != "$HOME") {
			continue
		}
		return p.style.Render(p.label) + rest
	}
	return path
}

// cutDir reports whether path is dir or lies below it, and returns the
// remainder including its leading separator.
func cutDir(path, dir string) (string, bool) {
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if path == dir {
		return "", true
	}
	if rest, ok := strings.CutPrefix(path, dir+string(filepath.Separator)); ok {
		return string(filepath.Separator) + rest, true
	}
	return "", false
}

// envVarRef renders $NAME, bold when the variable is set.
func envVarRef(name string, set bool) string {
	if name == "" {
		return ""
	}
	if set {
		return envVarSetStyle.Render("$" + name)
	}
	return envVarStyle.Render("$" + name)
}

// scriptName styles a script name by locality.
func scriptName(def *scriptfile.Definition) string {
	if def.IsLocal {
		return localScriptStyle.Render(def.Name)
	}
	return sharedScriptStyle.Render(def.Name)
}

// optionLines renders each option of def on its own line.
func optionLines(def *scriptfile.Definition) string {
	lines := make([]string, 0, len(def.Options))
	for _, opt := range def.Options {
		lines = append(lines, scriptfile.Options{opt}.String())
	}
	return strings.Join(lines, "\n")
}

// scriptsTable renders defs sorted by the caller. details adds the command,
// the script path relative to its scripts directory and the options.
func scriptsTable(defs []*scriptfile.Definition, t *binding.Table, details bool) *table.Table {
	headers := []string{"Name", "Depends", "Desc", "Local"}
	if details {
		headers = append(headers, "Cmd")
	}
	headers = append(headers, "Python")
	if details {
		headers = append(headers, "Path", "Options")
	}

	paths := newLocationAbbreviator(t, "", binding.KeyLocalScripts, binding.KeyScripts)
	tbl := newTable(headers...)
	for _, def := range defs {
		depends := ""
		if len(def.DependsOn) > 0 {
			depends = dependsStyle.Render(strings.Join(def.DependsOn, "\n"))
		}
		row := []string{scriptName(def), depends, def.Description, checkmarkIf(def.IsLocal)}
		if details {
			row = append(row, def.Command)
		}
		row = append(row, checkmarkIf(def.UsesInterpreter))
		if details {
			path := ""
			if def.UsesInterpreter {
				path = paths.Abbreviate(def.Path(t))
			}
			row = append(row, path, optionLines(def))
		}
		tbl.Row(row...)
	}
	return tbl
}
