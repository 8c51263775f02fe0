// SPDX-License-Identifier: MPL-2.0

// Package pkgmgr talks to the wrapped package manager (uv) through its CLI.
//
// The package manager is an opaque external command: its introspection
// subcommands (`uv python dir`, `uv tool dir`, `uv cache dir`, ...) are run
// and their trimmed text output is consumed verbatim. Client implements
// binding.Prober so the pythondir and tooldir bindings can fall back to asking
// uv where it keeps interpreters and tools.
package pkgmgr
