// SPDX-License-Identifier: MPL-2.0

package check

import (
	"os"
	"slices"
	"strings"

	"github.com/uvextras/uvextras/internal/dag"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

// Report is the outcome of Validate. Diagnostics are ordered by script
// declaration order, then by check.
type Report struct {
	Diagnostics []scriptfile.Diagnostic
	// Scripts is the number of distinct script names checked.
	Scripts int
}

// Validate checks every script of store:
//   - depends-on entries name a known script (error);
//   - depends-on entries do not form a cycle (error);
//   - a later script with a taken name is reported as shadowed (warning);
//   - interpreter scripts point at an existing file (error), or at least
//     at a resolved scripts directory (warning).
func Validate(store *scriptfile.Store) *Report {
	report := &Report{}
	table := store.Table()
	graph := dag.New()
	firstOf := make(map[string]*scriptfile.Definition)

	for _, def := range store.Scripts() {
		if _, ok := firstOf[def.Name]; ok {
			report.add(scriptfile.NewWarning(scriptfile.CodeShadowedScript, def.Name,
				"%s: shadowed by an earlier script with the same name", def.Name))
			continue
		}
		firstOf[def.Name] = def
		graph.AddNode(def.Name)

		seen := make(map[string]bool, len(def.DependsOn))
		for _, dep := range def.DependsOn {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if store.Find(dep) == nil {
				report.add(scriptfile.NewError(scriptfile.CodeUnknownDependency, def.Name,
					"%s: unknown dependency %s", def.Name, dep))
				continue
			}
			graph.AddEdge(dep, def.Name)
		}

		if !def.UsesInterpreter {
			continue
		}
		path := def.Path(table)
		switch {
		case path == "":
			report.add(scriptfile.NewWarning(scriptfile.CodeUnresolvedDirectory, def.Name,
				"%s: scripts directory is not set", def.Name))
		case !isRegularFile(path):
			d := scriptfile.NewError(scriptfile.CodeMissingScriptFile, def.Name,
				"%s: script file does not exist", def.Name)
			d.Path = path
			report.add(d)
		}
	}

	for _, cycle := range graph.Cycles() {
		report.add(scriptfile.NewError(scriptfile.CodeDependencyCycle, cycle[0],
			"dependency cycle: %s", strings.Join(cycle, " -> ")))
	}

	report.Scripts = len(firstOf)
	return report
}

func (r *Report) add(d scriptfile.Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Errors returns the diagnostics with error severity.
func (r *Report) Errors() []scriptfile.Diagnostic {
	return r.filter(scriptfile.SeverityError)
}

// Warnings returns the diagnostics with warning severity.
func (r *Report) Warnings() []scriptfile.Diagnostic {
	return r.filter(scriptfile.SeverityWarning)
}

// HasErrors reports whether any diagnostic is an error.
func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d scriptfile.Diagnostic) bool {
		return d.Severity == scriptfile.SeverityError
	})
}

// Has reports whether a diagnostic with code was raised.
func (r *Report) Has(code string) bool {
	return slices.ContainsFunc(r.Diagnostics, func(d scriptfile.Diagnostic) bool {
		return d.Code == code
	})
}

func (r *Report) filter(severity scriptfile.Severity) []scriptfile.Diagnostic {
	var out []scriptfile.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
