package scanexec

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for scan requests that cannot run.
var (
	// ErrNoHost indicates that no scan target was supplied.
	ErrNoHost = errors.New("no host specified")

	// ErrTargetDenied indicates that the target matched the deny list.
	ErrTargetDenied = errors.New("target is not allowed")

	// ErrUnresolvableHost indicates that a guarded target could not be resolved.
	ErrUnresolvableHost = errors.New("host could not be resolved")

	// ErrNoValidPorts indicates that the port specification yielded no ports.
	ErrNoValidPorts = errors.New("no valid ports parsed")
)

// Error codes used by the CLI suggestion system and the HTTP API.
const (
	errorCodeInvalidTarget      = "INVALID_TARGET"
	errorCodeTargetDenied       = "TARGET_DENIED"
	errorCodeUnresolvableTarget = "UNRESOLVABLE_TARGET"
	errorCodeNoValidPorts       = "NO_VALID_PORTS"
	errorCodeScanTimeout        = "SCAN_TIMEOUT"
	errorCodeScanFailure        = "SCAN_FAILURE"
)

// codedError wraps an error with an explicit error code.
type codedError struct {
	error
	code string
}

func (e *codedError) Error() string {
	return e.error.Error()
}

func (e *codedError) Unwrap() error {
	return e.error
}

func (e *codedError) Code() string {
	return e.code
}

// WithErrorCode wraps err with a specific error code.
func WithErrorCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &codedError{error: err, code: code}
}

// ErrorCode resolves a scan error into an error code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := coded.Code(); code != "" {
			return code
		}
	}

	switch {
	case errors.Is(err, ErrNoHost):
		return errorCodeInvalidTarget
	case errors.Is(err, ErrTargetDenied):
		return errorCodeTargetDenied
	case errors.Is(err, ErrUnresolvableHost):
		return errorCodeUnresolvableTarget
	case errors.Is(err, ErrNoValidPorts):
		return errorCodeNoValidPorts
	case errors.Is(err, context.DeadlineExceeded):
		return errorCodeScanTimeout
	}

	return errorCodeScanFailure
}

// IsInputError reports whether err was caused by the request rather than the scan.
func IsInputError(err error) bool {
	switch ErrorCode(err) {
	case errorCodeInvalidTarget,
		errorCodeTargetDenied,
		errorCodeUnresolvableTarget,
		errorCodeNoValidPorts:
		return true
	}
	return false
}

// ExitCode maps scan errors to CLI exit codes.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if IsInputError(err) {
		return 2
	}
	return 1
}

// HTTPStatus maps scan errors to HTTP status codes.
func HTTPStatus(err error) int {
	if err == nil {
		return 200
	}
	if IsInputError(err) {
		return 400
	}
	if ErrorCode(err) == errorCodeScanTimeout {
		return 504
	}
	return 500
}

// Suggestions provides CLI hints for scan errors.
func Suggestions(err error) []string {
	if err == nil {
		return nil
	}

	switch ErrorCode(err) {
	case errorCodeInvalidTarget:
		return []string{
			"Provide a target:           netlab scan scanme.nmap.org",
			"Scan an address:            netlab scan 203.0.113.10 --ports 22,80,443",
		}
	case errorCodeTargetDenied:
		return []string{
			"Private and local targets are refused by the API",
			"Scan local hosts from the CLI: netlab scan <host>",
		}
	case errorCodeUnresolvableTarget:
		return []string{
			"Check the hostname spelling and your DNS configuration",
		}
	case errorCodeNoValidPorts:
		return []string{
			"Use ports or ranges:        --ports 22,80,443 or --ports 1-1024",
			"Ports must be within 1-65535",
		}
	case errorCodeScanTimeout:
		return []string{
			"Scan fewer ports:           --ports 1-100",
			"Lower the connect timeout:  --timeout 300ms",
		}
	default:
		return []string{
			"Retry with verbose logs:    netlab scan <host> --debug",
			"Enable progress output:     netlab scan <host> --progress",
		}
	}
}

// NewInvalidTargetError annotates an invalid target input with context.
func NewInvalidTargetError(input string, reason error) error {
	base := ErrNoHost
	if input != "" {
		base = fmt.Errorf("invalid target %q: %w", input, reason)
	}
	return WithErrorCode(base, errorCodeInvalidTarget)
}
