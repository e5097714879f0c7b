package v0

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/rust-tracker/internal/api/common"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/service"
	"github.com/stacklok/rust-tracker/internal/store"
	pkgsync "github.com/stacklok/rust-tracker/internal/sync"
)

// maxBodyBytes bounds admin request bodies
const maxBodyBytes = 64 << 10

// Routes defines the admin routes with dependency injection
type Routes struct {
	service service.TrackerService
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc service.TrackerService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Register adds the admin routes to r
func Register(r chi.Router, svc service.TrackerService) {
	routes := NewRoutes(svc)

	r.Get("/status", routes.getStatus)
	r.Post("/broadcast", routes.broadcast)
	r.Post("/wipe", routes.wipe)
	r.Post("/sync/{tenantID}", routes.syncTenant)

	r.Route("/tenants/{tenantID}", func(r chi.Router) {
		r.Get("/leaderboard", routes.leaderboard)
		r.Get("/market", routes.market)
	})
}

// getStatus handles GET /status
func (rr *Routes) getStatus(w http.ResponseWriter, r *http.Request) {
	st, err := rr.service.GetStatus(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to get status", err)
		return
	}
	common.WriteJSONResponse(w, st, http.StatusOK)
}

// broadcast handles POST /broadcast
func (rr *Routes) broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		common.WriteErrorResponse(w, "Message required", http.StatusBadRequest)
		return
	}
	if req.ChannelID == "" {
		common.WriteErrorResponse(w, "Channel ID required", http.StatusBadRequest)
		return
	}

	id, err := rr.service.Broadcast(r.Context(), req.ChannelID, req.Message)
	if err != nil {
		writeServiceError(w, "Failed to broadcast", err)
		return
	}
	common.WriteJSONResponse(w, BroadcastResponse{Success: true, BroadcastID: id}, http.StatusOK)
}

// wipe handles POST /wipe
func (rr *Routes) wipe(w http.ResponseWriter, r *http.Request) {
	var req WipeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TenantID == "" {
		common.WriteErrorResponse(w, "Tenant ID required", http.StatusBadRequest)
		return
	}

	var at time.Time
	if req.Timestamp != nil {
		at = *req.Timestamp
	}

	result, err := rr.service.RecordWipe(r.Context(), req.TenantID, at)
	if err != nil {
		writeServiceError(w, "Failed to record wipe", err)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}

// syncTenant handles POST /sync/{tenantID}
func (rr *Routes) syncTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	result, err := rr.service.SyncTenant(r.Context(), tenantID)
	if err != nil {
		var syncErr *pkgsync.Error
		if errors.As(err, &syncErr) && syncErr.Reason == pkgsync.ReasonRosterUnavailable {
			common.WriteErrorResponse(w, syncErr.Error(), http.StatusBadGateway)
			return
		}
		if result == nil {
			writeServiceError(w, "Failed to sync tenant", err)
			return
		}
		// transitions were applied; report the partial failure alongside them
		logger.Warnw("Manual sync finished with errors", "tenant_id", tenantID, "error", err)
	}
	if result.Skipped == pkgsync.SkipTenantNotConfigured {
		common.WriteErrorResponse(w, "Tenant not configured: "+tenantID, http.StatusNotFound)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}

// leaderboard handles GET /tenants/{tenantID}/leaderboard
func (rr *Routes) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	result, err := rr.service.Leaderboard(r.Context(), chi.URLParam(r, "tenantID"), limit)
	if err != nil {
		writeServiceError(w, "Failed to get leaderboard", err)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}

// market handles GET /tenants/{tenantID}/market
func (rr *Routes) market(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	item := r.URL.Query().Get("item")
	if item == "" {
		common.WriteErrorResponse(w, "Query parameter item required", http.StatusBadRequest)
		return
	}

	listings, err := rr.service.SearchMarket(r.Context(), chi.URLParam(r, "tenantID"), item, limit)
	if err != nil {
		writeServiceError(w, "Failed to search market", err)
		return
	}
	common.WriteJSONResponse(w, map[string]any{"listings": listings}, http.StatusOK)
}

// decodeBody decodes a JSON request body and writes a 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		common.WriteErrorResponse(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// parseLimit reads the optional limit query parameter
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		common.WriteErrorResponse(w, "Invalid limit: "+raw, http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

// writeServiceError maps service errors to status codes
func writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrTenantNotFound):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrNotConfigured):
		common.WriteErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
	default:
		logger.Errorf("%s: %v", msg, err)
		common.WriteErrorResponse(w, msg, http.StatusInternalServerError)
	}
}
