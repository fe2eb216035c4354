package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/report"
)

const defaultTopHoldings = 20

// FundsHandler serves the fund list and per-fund views.
type FundsHandler struct {
	logger *common.Logger
	state  State
	prices PriceSource
}

// NewFundsHandler creates a new funds handler. prices may be nil when
// no market data source is configured.
func NewFundsHandler(logger *common.Logger, state State, prices PriceSource) *FundsHandler {
	return &FundsHandler{logger: logger, state: state, prices: prices}
}

// topN reads the ?top= query parameter, falling back to the default.
func topN(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// List handles GET /api/funds.
func (h *FundsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   h.state.Reporter().Funds(),
	})
}

// Detail handles GET /api/funds/{accession}/summary and
// GET /api/funds/{accession}/treemap.
func (h *FundsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/funds/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		WriteError(w, http.StatusNotFound, "unknown fund endpoint")
		return
	}
	accession, view := parts[0], parts[1]

	reporter := h.state.Reporter()
	switch view {
	case "summary":
		summary, ok := reporter.Summary(accession, topN(r, defaultTopHoldings))
		if !ok {
			WriteError(w, http.StatusNotFound, "unknown accession: "+accession)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "data": summary})
	case "treemap":
		treemap, ok := reporter.TreemapFor(accession)
		if !ok {
			WriteError(w, http.StatusNotFound, "unknown accession: "+accession)
			return
		}
		if h.prices != nil && r.URL.Query().Get("quotes") == "1" {
			h.attachQuotes(r, &treemap)
		}
		WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "data": treemap})
	default:
		WriteError(w, http.StatusNotFound, "unknown fund view: "+view)
	}
}

// attachQuotes fills in price movements for every tile with a ticker.
func (h *FundsHandler) attachQuotes(r *http.Request, treemap *report.Treemap) {
	var tickers []string
	for _, group := range treemap.Groups {
		for _, leaf := range group.Holdings {
			if leaf.Ticker != "" {
				tickers = append(tickers, leaf.Ticker)
			}
		}
	}
	if len(tickers) == 0 {
		return
	}

	quotes := h.prices.Changes(r.Context(), tickers)
	for gi := range treemap.Groups {
		holdings := treemap.Groups[gi].Holdings
		for li := range holdings {
			if q, ok := quotes[holdings[li].Ticker]; ok {
				quote := q
				holdings[li].PriceChange = &quote
			}
		}
	}
}
