// Package v0 provides the REST API handlers of the tracker admin endpoint.
package v0

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/rust-tracker/internal/api/common"
	"github.com/stacklok/rust-tracker/internal/service"
	"github.com/stacklok/rust-tracker/internal/versions"
)

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.TrackerService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

// readinessHandler reports 503 while the store is unreachable
func readinessHandler(svc service.TrackerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "TrackerService not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, map[string]string{"status": "ready"}, http.StatusOK)
	}
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
