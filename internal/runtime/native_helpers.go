// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
	"syscall"
)

type (
	// executeOutput configures where command output is directed during execution.
	// Each stream either goes to the caller's writer or is captured.
	executeOutput struct {
		stdout io.Writer
		stderr io.Writer
	}

	// capturedOutput holds the buffers of streams the caller did not supply a writer for.
	capturedOutput struct {
		stdout bytes.Buffer
		stderr bytes.Buffer
	}
)

// newExecuteOutput routes each stream of streams, capturing the ones left nil.
func newExecuteOutput(streams IO) (*executeOutput, *capturedOutput) {
	captured := &capturedOutput{}
	out := &executeOutput{stdout: streams.Stdout, stderr: streams.Stderr}
	if out.stdout == nil {
		out.stdout = &captured.stdout
	}
	if out.stderr == nil {
		out.stderr = &captured.stderr
	}
	return out, captured
}

// extractExitCode turns the error of cmd.Run into a Result. A non-zero exit
// is not an error; failing to start the process is.
func extractExitCode(err error, captured *capturedOutput) *Result {
	result := &Result{}

	if captured != nil {
		result.Output = captured.stdout.String()
		result.ErrOutput = captured.stderr.String()
	}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode := ExitCode(exitErr.ExitCode())
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			exitCode = SignalExitCode(ws.Signal())
		}
		if validateErr := exitCode.Validate(); validateErr != nil {
			result.ExitCode = ExitFailure
			result.Error = errors.Join(err, validateErr)
			return result
		}
		result.ExitCode = exitCode
		return result
	}

	// not found, permission denied
	result.ExitCode = ExitFailure
	result.Error = err
	return result
}
