// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadFunc adapts a function to the provider interface the CLI accepts.
// Tests use it to hand the CLI a prepared Result.
type LoadFunc func(ctx context.Context, opts LoadOptions) (*Result, error)

// Load calls f.
func (f LoadFunc) Load(ctx context.Context, opts LoadOptions) (*Result, error) {
	return f(ctx, opts)
}

// Load reads the configuration files opts describes.
func Load(ctx context.Context, opts LoadOptions) (*Result, error) {
	return NewLoader(opts).Load(ctx)
}
