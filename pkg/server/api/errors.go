package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lestorrr/NetLab/pkg/scanexec"
)

// ErrorResponse represents a standard JSON error response.
// Used consistently across all API endpoints for error responses.
//
// Example:
//
//	{
//	  "error": "Bad Request",
//	  "code": "TARGET_DENIED",
//	  "message": "localhost: target is not allowed"
//	}
type ErrorResponse struct {
	Error   string `json:"error"`             // Short error type (e.g., "Bad Request")
	Code    string `json:"code,omitempty"`    // Machine-readable error code
	Message string `json:"message,omitempty"` // Detailed error message (optional)
}

// WriteError writes a standard JSON error response for a scan error.
// The status code and error code come from the scanexec error taxonomy.
//
// It also logs the error with structured logging for observability.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := scanexec.HTTPStatus(err)
	code := scanexec.ErrorCode(err)

	logEvent := log.Warn()
	if statusCode >= http.StatusInternalServerError {
		logEvent = log.Error()
	}
	logEvent.
		Str("component", "api").
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", statusCode).
		Str("error_code", code).
		Err(err).
		Msg("Request failed")

	WriteJSONError(w, statusCode, http.StatusText(statusCode), code, err.Error())
}

// WriteJSONError writes a custom JSON error response with a specific status code.
// Use this when you need fine-grained control over the error response.
//
// Example:
//
//	WriteJSONError(w, http.StatusBadRequest, "Bad Request", "HOST_REQUIRED", "Host is required")
func WriteJSONError(w http.ResponseWriter, statusCode int, errorType, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   errorType,
		Code:    code,
		Message: message,
	})
}

// WriteJSON writes a JSON response to the client.
// Use this for successful API responses.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().
			Str("component", "api").
			Err(err).
			Msg("Failed to encode JSON response")
	}
}
