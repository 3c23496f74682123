package v1

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

var validate = validator.New()

// PortScanRequest is the validated body of POST /api/v1/port-scan.
type PortScanRequest struct {
	Host        string `validate:"required,max=253"`
	Ports       string `validate:"required,max=4096"`
	Concurrency int    `validate:"min=1,max=1000"`
}

// ParsePortScanRequest converts a decoded JSON body into a PortScanRequest.
//
// ports may be a string ("22,80,8000-8010"), a number (443) or an array of
// either; concurrency may be a number or a numeric string. A missing or zero
// concurrency takes defaultConcurrency.
func ParsePortScanRequest(body map[string]interface{}, defaultConcurrency int) (*PortScanRequest, error) {
	host, err := cast.ToStringE(body["host"])
	if err != nil {
		return nil, &ValidationError{Field: "host", Reason: "must be a string"}
	}

	ports, err := portsField(body["ports"])
	if err != nil {
		return nil, &ValidationError{Field: "ports", Reason: "must be a string, number or list"}
	}

	concurrency, err := cast.ToIntE(body["concurrency"])
	if err != nil {
		return nil, &ValidationError{Field: "concurrency", Reason: "must be an integer"}
	}
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}

	req := &PortScanRequest{
		Host:        strings.TrimSpace(host),
		Ports:       strings.TrimSpace(ports),
		Concurrency: concurrency,
	}
	if err := validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}
	return req, nil
}

// portsField flattens the accepted shapes of "ports" into a specification string.
func portsField(v interface{}) (string, error) {
	if list, ok := v.([]interface{}); ok {
		parts, err := cast.ToStringSliceE(list)
		if err != nil {
			return "", err
		}
		return strings.Join(parts, ","), nil
	}
	return cast.ToStringE(v)
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "required"}
	case "min", "max":
		if field == "concurrency" {
			return &ValidationError{Field: field, Reason: "must be between 1 and 1000"}
		}
		return &ValidationError{Field: field, Reason: "too long"}
	default:
		return &ValidationError{Field: field, Reason: "invalid"}
	}
}

// ValidationError is a lightweight error used for 400 responses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		if e.Reason != "" {
			return e.Reason
		}
		return "validation failed"
	}
	if e.Reason == "" {
		return e.Field + ": invalid"
	}
	return e.Field + ": " + e.Reason
}

// Code returns the machine-readable error code of the validation failure.
func (e *ValidationError) Code() string {
	if e == nil || e.Field == "" {
		return "INVALID_REQUEST"
	}
	if e.Reason == "required" {
		return strings.ToUpper(e.Field) + "_REQUIRED"
	}
	return "INVALID_" + strings.ToUpper(e.Field)
}
