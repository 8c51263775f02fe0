// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when files of a project change.
//
// Every non-ignored directory below the base directory is watched with
// fsnotify. Events are filtered with doublestar patterns and coalesced: the
// callback fires once per quiet period with the set of changed paths, and
// never while a previous invocation is still running.
package watch
