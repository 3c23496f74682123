package server

import (
	"errors"
	"fmt"
	"syscall"
)

// Failure codes reported by `netlab server start`.
const (
	errorCodeInvalidPort       = "SERVER_INVALID_PORT"
	errorCodeConfigUnavailable = "SERVER_CONFIG_UNAVAILABLE"
	errorCodeInvalidConfig     = "SERVER_INVALID_CONFIG"
	errorCodeAppInitFailed     = "SERVER_INIT_FAILED"
	errorCodeAddrInUse         = "SERVER_ADDR_IN_USE"
	errorCodeAlreadyRunning    = "SERVER_ALREADY_RUNNING"
	errorCodeRuntimeFailed     = "SERVER_RUNTIME_FAILED"
)

var (
	// ErrInvalidPort indicates an invalid port flag value.
	ErrInvalidPort = errors.New("invalid port")
	// ErrConfigUnavailable indicates the CLI context lacked a config manager.
	ErrConfigUnavailable = errors.New("config manager unavailable")
)

// failure describes how the CLI reports one failure code.
type failure struct {
	exit  int
	hints []string
}

var failures = map[string]failure{
	errorCodeInvalidPort: {exit: 2, hints: []string{
		"Use a port between 1 and 65535",
		"Example:                 netlab server start --server.port 8080",
	}},
	errorCodeConfigUnavailable: {exit: 1, hints: []string{
		"Run via the netlab CLI so configuration is loaded",
	}},
	errorCodeInvalidConfig: {exit: 2, hints: []string{
		"Check the server section of your config file",
		"Token auth needs a token: --server.auth.token <secret>",
	}},
	errorCodeAppInitFailed: {exit: 7, hints: []string{
		"Retry with debug logging: netlab server start --debug",
		"Review configuration for invalid values",
	}},
	errorCodeAddrInUse: {exit: 1, hints: []string{
		"Another process is listening on that address",
		"Pick a free port:        netlab server start --server.port 8081",
	}},
	errorCodeAlreadyRunning: {exit: 1, hints: []string{
		"Stop the other server or pass a different --lock-file",
	}},
	errorCodeRuntimeFailed: {exit: 1, hints: []string{
		"Check server logs for runtime errors",
	}},
}

// codedError attaches a failure code to an error without changing its text.
type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// Code returns the failure code.
func (e *codedError) Code() string { return e.code }

// WithErrorCode annotates err with a server failure code.
func WithErrorCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: code}
}

// NewInvalidPortError reports a listen port outside 1..65535.
func NewInvalidPortError(port int) error {
	return WithErrorCode(fmt.Errorf("%w: invalid port %d: must be between 1 and 65535", ErrInvalidPort, port), errorCodeInvalidPort)
}

// WrapInvalidConfig annotates server config validation errors.
func WrapInvalidConfig(err error) error {
	if err == nil {
		return nil
	}
	return WithErrorCode(fmt.Errorf("invalid server configuration: %w", err), errorCodeInvalidConfig)
}

// WrapAppInit annotates server app creation failures.
func WrapAppInit(err error) error {
	return WithErrorCode(err, errorCodeAppInitFailed)
}

// WrapRuntime annotates failures after the server was built.
func WrapRuntime(err error) error {
	return WithErrorCode(err, errorCodeRuntimeFailed)
}

// ErrorCode resolves err to a failure code. A busy listen address is
// recognized through any wrapping; otherwise the innermost-wrapping code or
// a known sentinel decides, and anything else is a runtime failure.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return errorCodeAddrInUse
	}

	var coded *codedError
	if errors.As(err, &coded) && coded.code != "" {
		return coded.code
	}

	switch {
	case errors.Is(err, ErrInvalidPort):
		return errorCodeInvalidPort
	case errors.Is(err, ErrConfigUnavailable):
		return errorCodeConfigUnavailable
	case errors.Is(err, ErrAlreadyRunning):
		return errorCodeAlreadyRunning
	}
	return errorCodeRuntimeFailed
}

// ExitCode maps err to the process exit code of `netlab server start`.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if f, ok := failures[ErrorCode(err)]; ok {
		return f.exit
	}
	return 1
}

// Suggestions returns CLI hints for err.
func Suggestions(err error) []string {
	if err == nil {
		return nil
	}
	return failures[ErrorCode(err)].hints
}
