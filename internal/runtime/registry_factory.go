// SPDX-License-Identifier: MPL-2.0

package runtime

import "log/slog"

// BuildRegistryOptions configures runtime registry construction.
type BuildRegistryOptions struct {
	// ExecCommand replaces exec.CommandContext in the native runtime.
	ExecCommand ExecCommandFunc
}

// BuildRegistry creates a registry with the native and virtual runtimes.
func BuildRegistry(opts BuildRegistryOptions) *Registry {
	var nativeOpts []NativeOption
	if opts.ExecCommand != nil {
		nativeOpts = append(nativeOpts, WithExecCommand(opts.ExecCommand))
	}

	reg := NewRegistry()
	reg.Register(RuntimeTypeNative, NewNativeRuntime(nativeOpts...))
	reg.Register(RuntimeTypeVirtual, NewVirtualRuntime())
	slog.Debug("runtime registry built", "runtimes", reg.Types())
	return reg
}
