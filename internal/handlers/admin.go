package handlers

import (
	"net/http"

	"github.com/fundlens/fundlens/internal/common"
)

// AdminHandler serves operational endpoints.
type AdminHandler struct {
	logger *common.Logger
	state  State
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(logger *common.Logger, state State) *AdminHandler {
	return &AdminHandler{logger: logger, state: state}
}

// Reload handles POST /api/admin/reload. The dataset is reloaded from
// disk and swapped in atomically; requests in flight keep the old
// snapshot.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.state.Reload(); err != nil {
		h.logger.Error().Err(err).Msg("dataset reload failed")
		WriteError(w, http.StatusInternalServerError, "reload failed: "+err.Error())
		return
	}

	snap := h.state.Snapshot()
	h.logger.Info().
		Int("holdings", snap.HoldingCount()).
		Int("funds", snap.FundCount()).
		Msg("dataset reloaded")

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"holdings": snap.HoldingCount(),
		"funds":    snap.FundCount(),
	})
}
