// SPDX-License-Identifier: MPL-2.0

// Package runtime executes planned script invocations.
//
// Two runtime implementations are available:
//   - native: runs the argument vector directly with os/exec
//   - virtual: runs the quoted argument vector through the embedded mvdan/sh interpreter
//
// Both implement the Runtime interface. An Invocation carries everything a
// runtime needs (argv, environment, working directory) so runtimes never
// consult the configuration or the binding table themselves.
package runtime
