// SPDX-License-Identifier: MPL-2.0

package runtime

// Success reports a zero exit without an error starting or running the process.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// Exited is the Result of a process that ran to completion with code.
func Exited(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Failed is the Result of an invocation that could not run at all.
func Failed(err error) *Result {
	return &Result{ExitCode: ExitFailure, Error: err}
}
