// SPDX-License-Identifier: MPL-2.0

// Package scriptfiletest provides test helpers for creating scriptfile.Definition objects.
//
// This package is separate from testutil to avoid import cycles, since testutil
// is used by pkg/scriptfile tests which cannot import themselves through a helper.
//
// # Usage
//
//	import "github.com/uvextras/uvextras/internal/testutil/scriptfiletest"
//
//	s := scriptfiletest.NewTestScript("build", scriptfiletest.WithCommand("uv build"), scriptfiletest.Raw())
package scriptfiletest
