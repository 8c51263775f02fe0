// SPDX-License-Identifier: MPL-2.0

// Package testutil holds fixture helpers shared by the package tests:
// writing project trees into t.TempDir and faking environment lookups.
package testutil
