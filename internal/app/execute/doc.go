// SPDX-License-Identifier: MPL-2.0

// Package execute turns a script name into an ordered run plan and executes it.
//
// The Planner expands the direct dependencies of a script (one level, in
// declaration order, without deduplication) and builds one runtime.Invocation
// per step. The Runner executes the steps sequentially through a
// runtime.Registry and reports the first failure as an ExitError.
package execute
