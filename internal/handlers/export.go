package handlers

import (
	"net/http"
	"strings"

	"github.com/fundlens/fundlens/internal/common"
)

// ExportHandler streams snapshot tables as CSV downloads.
type ExportHandler struct {
	logger *common.Logger
	state  State
}

// NewExportHandler creates a new export handler.
func NewExportHandler(logger *common.Logger, state State) *ExportHandler {
	return &ExportHandler{logger: logger, state: state}
}

// ServeHTTP handles GET /api/export/{table}.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/api/export/")
	if table == "" || strings.Contains(table, "/") {
		WriteError(w, http.StatusNotFound, "unknown export table")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+table+`.csv"`)

	if err := h.state.Reporter().ExportCSV(w, table); err != nil {
		// Unknown tables fail before any bytes are written, so the
		// headers can still be replaced with a JSON error.
		w.Header().Del("Content-Disposition")
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.Debug().Str("table", table).Msg("export served")
}
