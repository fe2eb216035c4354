package handlers

import (
	"net/http"

	"github.com/fundlens/fundlens/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	state  State
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, state State) *HealthHandler {
	return &HealthHandler{logger: logger, state: state}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	snap := h.state.Snapshot()
	if snap == nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "loading",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"holdings":      snap.HoldingCount(),
		"funds":         snap.FundCount(),
		"load_warnings": snap.Warnings.Total(),
		"loaded_at":     snap.LoadedAt,
	})
}
