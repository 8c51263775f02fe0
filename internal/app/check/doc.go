// SPDX-License-Identifier: MPL-2.0

// Package check validates a merged configuration without running anything.
// It backs `uvextras validate`.
package check
