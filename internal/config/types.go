// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// RuntimeNative runs planned invocations directly with os/exec.
	// Defined locally to avoid coupling config to internal/runtime.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs planned invocations in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// DefaultInterpreter prefixes interpreter scripts without their own command.
	DefaultInterpreter = "uv run"
	// DefaultPackageManager is the package manager binary.
	DefaultPackageManager = "uv"
)

var (
	// ErrInvalidConfigRuntimeMode is returned when a config RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidSettings is the sentinel error wrapped by InvalidSettingsError.
	ErrInvalidSettings = errors.New("invalid settings")

	// an activated virtualenv of the caller must not leak into scripts
	defaultSanitizeEnv = []string{"VIRTUAL_ENV", "VIRTUAL_ENV_PROMPT", "PYTHONPATH"}
)

type (
	// RuntimeMode specifies the execution runtime for scripts.
	// The app casts to runtime.RuntimeType at the boundary.
	RuntimeMode string

	// InvalidConfigRuntimeModeError is returned when a config RuntimeMode value is not recognized.
	// It wraps ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
	InvalidConfigRuntimeModeError struct {
		Value RuntimeMode
	}

	// InvalidSettingsError is returned when Settings has invalid fields.
	// It wraps ErrInvalidSettings for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidSettingsError struct {
		FieldErrors []error
	}

	// Settings is the effective `settings` section after layering defaults,
	// the global and local documents, UVEXTRAS_* variables and CLI flags.
	Settings struct {
		// Interpreter is split into fields and prefixed to interpreter scripts
		// that have no command of their own.
		Interpreter string `json:"interpreter" mapstructure:"interpreter"`
		// PackageManager is the binary queried by `info` and the managed bindings.
		PackageManager string `json:"package_manager" mapstructure:"package-manager"`
		// Runtime selects how invocations are executed.
		Runtime RuntimeMode `json:"runtime" mapstructure:"runtime"`
		// SanitizeEnv lists inherited variables removed before running a script.
		SanitizeEnv []string `json:"sanitize_env" mapstructure:"sanitize-env"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// KeepGoing continues a run after a failing step.
		KeepGoing bool `json:"keep_going" mapstructure:"keep-going"`
	}
)

// Error implements the error interface.
func (e *InvalidConfigRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: %s, %s)", e.Value, RuntimeNative, RuntimeVirtual)
}

// Unwrap returns ErrInvalidConfigRuntimeMode so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigRuntimeModeError) Unwrap() error { return ErrInvalidConfigRuntimeMode }

// Error implements the error interface.
func (e *InvalidSettingsError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid settings: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidSettings and the field errors for errors.Is() compatibility.
func (e *InvalidSettingsError) Unwrap() []error {
	return append([]error{ErrInvalidSettings}, e.FieldErrors...)
}

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// Validate returns nil if the RuntimeMode is one of the defined runtime modes.
func (m RuntimeMode) Validate() error {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return nil
	default:
		return &InvalidConfigRuntimeModeError{Value: m}
	}
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Interpreter:    DefaultInterpreter,
		PackageManager: DefaultPackageManager,
		Runtime:        RuntimeNative,
		SanitizeEnv:    slices.Clone(defaultSanitizeEnv),
	}
}

// Validate checks every field and returns an InvalidSettingsError listing the problems.
func (s Settings) Validate() error {
	var errs []error
	if err := s.Runtime.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(s.PackageManager) == "" {
		errs = append(errs, errors.New("package-manager must not be empty"))
	}
	for _, name := range s.SanitizeEnv {
		if name == "" || strings.Contains(name, "=") {
			errs = append(errs, fmt.Errorf("sanitize-env: invalid variable name %q", name))
		}
	}
	if len(errs) > 0 {
		return &InvalidSettingsError{FieldErrors: errs}
	}
	return nil
}
