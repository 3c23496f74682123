package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/server/api"
)

// Auth guards every route except health checks and CORS preflights.
//
// Mode "none" (or empty) admits everyone. Mode "token" requires
// "Authorization: Bearer <server.auth.token>"; the comparison is constant
// time. Any other mode rejects every guarded request.
func Auth(cfg config.ServerConfig) func(http.Handler) http.Handler {
	mode := cfg.Auth.Mode
	want := []byte(cfg.Auth.Token)

	return func(next http.Handler) http.Handler {
		if mode == "" || mode == "none" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) || isPreflight(r) {
				next.ServeHTTP(w, r)
				return
			}

			if reason := rejectReason(mode, want, r); reason != "" {
				zerolog.Ctx(r.Context()).Warn().
					Str("component", "auth").
					Str("mode", mode).
					Str("path", r.URL.Path).
					Msg(reason)
				w.Header().Set("WWW-Authenticate", `Bearer realm="netlab"`)
				api.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rejectReason returns why r is not authorized, or "" when it is.
func rejectReason(mode string, want []byte, r *http.Request) string {
	if mode != "token" {
		return "Authentication configuration error"
	}
	got := bearerToken(r.Header.Get("Authorization"))
	if got == "" {
		return "Missing bearer token"
	}
	if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
		return "Invalid token"
	}
	return ""
}

func isHealthEndpoint(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

// bearerToken extracts <token> from "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
