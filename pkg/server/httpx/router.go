package httpx

import (
	"net/http"

	"github.com/lestorrr/NetLab/pkg/server/api"
	v1 "github.com/lestorrr/NetLab/pkg/server/api/v1"
)

// NewRouter creates and configures the main HTTP router.
//
// The router uses Go 1.22+ enhanced pattern matching. Health endpoints are
// always mounted; the scan endpoint needs deps.Scanner.
func NewRouter(deps *api.Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints (always enabled)
	mux.HandleFunc("GET /healthz", v1.HealthzHandler)
	mux.HandleFunc("GET /readyz", v1.ReadyzHandler(deps.Ready))

	if deps.Scanner != nil {
		mux.HandleFunc("POST /api/v1/port-scan", v1.PortScanHandler(deps))
	}

	return mux
}
