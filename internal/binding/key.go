// SPDX-License-Identifier: MPL-2.0

package binding

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// KeyConfig locates the global uvextras.yaml.
	KeyConfig Key = "config"
	// KeyHome is the uvextras home directory.
	KeyHome Key = "home"
	// KeyScripts is the shared scripts directory.
	KeyScripts Key = "scripts"
	// KeyLocalDir is the per-project override directory.
	KeyLocalDir Key = "localdir"
	// KeyLocalConfig locates the per-project uvextras.yaml.
	KeyLocalConfig Key = "localconfig"
	// KeyLocalScripts is the per-project scripts directory.
	KeyLocalScripts Key = "localscripts"
	// KeyPythonDir is the interpreter install directory managed by the package manager.
	KeyPythonDir Key = "pythondir"
	// KeyToolDir is the tool install directory managed by the package manager.
	KeyToolDir Key = "tooldir"
)

var (
	// ErrInvalidBindingKey is the sentinel error wrapped by InvalidBindingKeyError.
	ErrInvalidBindingKey = errors.New("invalid binding key")
	// ErrBindingNotFound is returned when a valid key has no descriptor in a table.
	ErrBindingNotFound = errors.New("binding not found")
	// ErrDuplicateBinding is the sentinel error wrapped by DuplicateBindingError.
	ErrDuplicateBinding = errors.New("duplicate binding")

	allKeys = []Key{
		KeyConfig,
		KeyHome,
		KeyScripts,
		KeyLocalDir,
		KeyLocalConfig,
		KeyLocalScripts,
		KeyPythonDir,
		KeyToolDir,
	}
)

type (
	// Key is the symbolic name of a binding. Only the Key* constants are legal.
	Key string

	// InvalidBindingKeyError is returned when a Key is outside the closed set.
	// It wraps ErrInvalidBindingKey for errors.Is() compatibility.
	InvalidBindingKeyError struct {
		Value Key
	}

	// DuplicateBindingError is returned when a document declares the same key twice.
	DuplicateBindingError struct {
		Value Key
	}
)

// Keys returns every legal binding key in canonical order.
func Keys() []Key {
	return slices.Clone(allKeys)
}

// Validate returns an InvalidBindingKeyError when k is not a legal key.
func (k Key) Validate() error {
	if slices.Contains(allKeys, k) {
		return nil
	}
	return &InvalidBindingKeyError{Value: k}
}

// String returns the key as written in configuration files.
func (k Key) String() string { return string(k) }

// Error implements the error interface.
func (e *InvalidBindingKeyError) Error() string {
	return fmt.Sprintf("invalid binding key %q (valid: %v)", e.Value, allKeys)
}

// Unwrap returns ErrInvalidBindingKey so callers can use errors.Is for programmatic detection.
func (e *InvalidBindingKeyError) Unwrap() error { return ErrInvalidBindingKey }

// Error implements the error interface.
func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("binding %q declared more than once", e.Value)
}

// Unwrap returns ErrDuplicateBinding.
func (e *DuplicateBindingError) Unwrap() error { return ErrDuplicateBinding }
