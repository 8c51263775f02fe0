// SPDX-License-Identifier: MPL-2.0

// Package scriptfile reads, merges and writes uvextras.yaml documents.
//
// A document has three optional sections: settings (tool behaviour, layered
// by the config package), envvars (binding descriptors) and scripts. Parsing
// validates the YAML against an embedded CUE schema before decoding it, so a
// malformed document never yields a partial Store.
//
// A Store keeps scripts in insertion order. Lookup is first-match: after a
// local document is merged, several local scripts may share a name and only
// the first one is reachable through Find.
package scriptfile
