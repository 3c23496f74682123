package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lestorrr/NetLab/pkg/scanexec"
	"github.com/lestorrr/NetLab/pkg/scanner"
	"github.com/lestorrr/NetLab/pkg/server/api"
	"github.com/lestorrr/NetLab/pkg/stringutil"
)

// MaxRequestBodySize bounds the port-scan request body.
const MaxRequestBodySize = 64 << 10

// PortScanResponse is the body of a successful port scan.
type PortScanResponse struct {
	ScanID      string           `json:"scan_id"`
	Host        string           `json:"host"`
	IP          string           `json:"ip"`
	OpenPorts   []scanner.Result `json:"openPorts"`
	ClosedCount int              `json:"closedCount"`
	TookMs      float64          `json:"tookMs"`
}

// PortScanHandler handles POST /api/v1/port-scan
//
// Request format:
//
//	{
//	  "host": "scanme.example.org",  // Required
//	  "ports": "22,80,8000-8010",    // Required: string, number or list
//	  "concurrency": 50              // Optional: 1-1000
//	}
//
// Response format:
//
//	{
//	  "scan_id": "5b6c...",
//	  "host": "scanme.example.org",
//	  "ip": "203.0.113.10",
//	  "openPorts": [{"port": 22, "ms": 31.4}],
//	  "closedCount": 12,
//	  "tookMs": 812.7
//	}
//
// Returns 400 for invalid or denied requests, 500 for server errors, 504 for timeout.
func PortScanHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).With().
			Str("component", "api.portscan").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		start := time.Now()
		var statusCode int
		defer func() {
			logger.Info().
				Int("status", statusCode).
				Dur("duration_ms", time.Since(start)).
				Msg("request completed")
		}()

		// Apply handler-level timeout (only if request context doesn't have deadline)
		ctx := r.Context()
		if _, hasDeadline := ctx.Deadline(); !hasDeadline && deps.Config.HandlerTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.Config.HandlerTimeout)
			defer cancel()
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			statusCode = http.StatusBadRequest
			logger.Warn().
				Err(err).
				Str("error_code", "INVALID_REQUEST_BODY").
				Msg("failed to decode request")
			api.WriteJSONError(w, statusCode, "Bad Request", "INVALID_REQUEST_BODY", "invalid request body: "+err.Error())
			return
		}

		req, err := ParsePortScanRequest(body, deps.Config.DefaultConcurrency)
		if err != nil {
			statusCode = http.StatusBadRequest
			code := "INVALID_REQUEST"
			var verr *ValidationError
			if errors.As(err, &verr) {
				code = verr.Code()
			}
			logger.Warn().
				Str("error_code", code).
				Msg("validation failed: " + err.Error())
			api.WriteJSONError(w, statusCode, "Bad Request", code, err.Error())
			return
		}

		logger.Info().
			Str("host", stringutil.Ellipsis(req.Host, 80)).
			Str("ports", stringutil.Ellipsis(req.Ports, 80)).
			Int("concurrency", req.Concurrency).
			Msg("scan started")

		result, err := deps.Scanner.Run(ctx, scanexec.Params{
			Host:        req.Host,
			Ports:       req.Ports,
			Concurrency: req.Concurrency,
			Timeout:     deps.Config.ProbeTimeout,
			MaxPorts:    deps.Config.MaxPorts,
			Guard:       deps.Guard,
		})
		if err != nil {
			// Check if timeout occurred
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				statusCode = http.StatusGatewayTimeout
				logger.Error().
					Err(err).
					Str("error_code", "TIMEOUT").
					Msg("scan failed: timeout")
				api.WriteJSONError(w, statusCode, "Gateway Timeout", "TIMEOUT",
					"operation timed out after "+deps.Config.HandlerTimeout.String())
				return
			}
			statusCode = scanexec.HTTPStatus(err)
			api.WriteError(w, r, err)
			return
		}

		open := result.OpenPorts
		if open == nil {
			open = []scanner.Result{}
		}

		statusCode = http.StatusOK
		api.WriteJSON(w, statusCode, PortScanResponse{
			ScanID:      result.ID,
			Host:        result.Host,
			IP:          result.IP,
			OpenPorts:   open,
			ClosedCount: result.ClosedCount,
			TookMs:      result.TookMs(),
		})
	}
}
