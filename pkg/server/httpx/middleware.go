package httpx

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/server/api"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Chain wraps handler with the server middleware, outermost first:
// RequestLog → Auth → RateLimit → Recover → CORS.
//
// Every request is logged, including rejected ones. Calls refused by Auth
// never reach the limiter, so they do not spend a client's scan budget.
func Chain(cfg config.ServerConfig, logger zerolog.Logger, handler http.Handler) http.Handler {
	limiter := NewRateLimiter(cfg.RateLimit)
	return RequestLog(logger)(Auth(cfg)(RateLimit(limiter)(Recover(CORS(handler)))))
}

// RequestLog tags each request with an ID, puts a request logger on its
// context (read it back with zerolog.Ctx) and logs the outcome once the
// handler returns. 5xx responses log at error level, 4xx at warn.
func RequestLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := requestID(r)
			w.Header().Set(RequestIDHeader, id)

			reqLogger := logger.With().
				Str("component", "http").
				Str("request_id", id).
				Str("client", ClientIP(r)).
				Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			ev := reqLogger.Info()
			switch {
			case rec.status >= http.StatusInternalServerError:
				ev = reqLogger.Error()
			case rec.status >= http.StatusBadRequest:
				ev = reqLogger.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

// requestID keeps a caller supplied ID made of up to 64 URL-safe characters
// and generates a UUID otherwise.
func requestID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if id == "" || len(id) > 64 {
		return uuid.NewString()
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return uuid.NewString()
		}
	}
	return id
}

// Recover turns a handler panic into a 500 JSON error. http.ErrAbortHandler
// is re-raised so net/http can drop the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			zerolog.Ctx(r.Context()).Error().
				Interface("panic", v).
				Str("path", r.URL.Path).
				Msg("Recovered from handler panic")
			api.WriteJSONError(w, http.StatusInternalServerError, "Internal Server Error", "INTERNAL_ERROR", "internal error")
		}()

		next.ServeHTTP(w, r)
	})
}

// CORS lets browser pages on any origin call the API and answers preflight
// requests with 204 without reaching the router.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Expose-Headers", "Retry-After, "+RequestIDHeader)

		if isPreflight(r) {
			h.Set("Access-Control-Allow-Methods", "GET, POST")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isPreflight reports whether r is a CORS preflight. Browsers send these
// without credentials, so Auth and RateLimit let them through.
func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// statusRecorder captures the status code and body size for RequestLog.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.status = code
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	rec.wroteHeader = true
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}
