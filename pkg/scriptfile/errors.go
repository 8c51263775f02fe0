// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"errors"
	"fmt"
)

// ErrConfigParse is the sentinel error wrapped by ConfigParseError.
var ErrConfigParse = errors.New("configuration parse error")

// ConfigParseError is returned when a configuration document cannot be read,
// fails schema validation or cannot be decoded. It wraps both ErrConfigParse
// and the underlying cause, so errors.As can reach a *cueutil.ValidationError.
type ConfigParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("failed to parse configuration %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrConfigParse and the cause.
func (e *ConfigParseError) Unwrap() []error { return []error{ErrConfigParse, e.Err} }
