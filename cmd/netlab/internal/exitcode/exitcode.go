// Package exitcode carries process exit codes alongside command errors.
//
// Exit codes:
//   - 0: Success
//   - 1: General error (default)
//   - 2: Invalid usage/input (bad flags, empty or denied target)
//   - 7: Server initialization failure
package exitcode

import "errors"

type reportedError struct {
	err  error
	code int
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported marks err as already shown to the user and attaches the exit code.
func Reported(err error, code int) error {
	if err == nil {
		return nil
	}
	if code == 0 {
		code = 1
	}
	return &reportedError{err: err, code: code}
}

// IsReported reports whether err was already printed by a command.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// Code returns the exit code for err, defaulting to 1 for unannotated errors.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var r *reportedError
	if errors.As(err, &r) {
		return r.code
	}
	return 1
}
