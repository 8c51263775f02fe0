// SPDX-License-Identifier: MPL-2.0

// Package issue holds the catalog of known failure modes and the
// ActionableError type that links a failure to its catalog entry.
//
// Catalog entries are markdown guides rendered with glamour below the
// error message: where uvextras looks for files, what the document
// fields are called, and which command to try next.
package issue
