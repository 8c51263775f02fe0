// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
	"syscall"
)

const (
	// ExitFailure is reported when a step fails without an exit status of its own.
	ExitFailure ExitCode = 1
	// ExitInterrupted is reported for a run stopped by SIGINT or a canceled context.
	ExitInterrupted ExitCode = 128 + ExitCode(syscall.SIGINT)
)

// ErrInvalidExitCode is wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status, 0 through 255. Zero is success.
	ExitCode int

	// InvalidExitCodeError reports an ExitCode outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d out of range 0-255", e.Value)
}

func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// SignalExitCode follows the shell convention of 128 plus the signal number.
func SignalExitCode(sig syscall.Signal) ExitCode {
	return 128 + ExitCode(sig)
}

// Validate rejects codes a process cannot report.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

func (c ExitCode) IsSuccess() bool { return c == 0 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
