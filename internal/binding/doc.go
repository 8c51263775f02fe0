// SPDX-License-Identifier: MPL-2.0

// Package binding resolves the named filesystem locations uvextras works with.
//
// A Binding ties a key from a closed set (config, home, scripts, localdir,
// localconfig, localscripts, pythondir, tooldir) to an environment variable that
// overrides it and to an ordered list of candidate path templates. Candidates
// may reference other variables ($HOME, $UVEXTRAS_HOME, ...); the first
// candidate that exists on disk wins. When nothing matches, the binding resolves
// to the empty string, which consumers treat as "unset".
//
// A Table owns every binding of one run. Values are resolved lazily on first
// access and never change afterwards, even if the environment does. Resolved
// values are published into the table's resolution context under the binding's
// variable name, so a candidate like "$UVEXTRAS_HOME/scripts" sees the value
// the home binding resolved to without touching the process environment.
package binding
