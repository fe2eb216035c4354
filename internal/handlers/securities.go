package handlers

import (
	"net/http"
	"strings"

	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/models"
	"github.com/fundlens/fundlens/internal/report"
)

const defaultPopularCount = 25

// popularRow is a PopularSecurity with an optional price movement quote.
type popularRow struct {
	report.PopularSecurity
	PriceChange *models.PriceChange `json:"price_change,omitempty"`
}

// SecuritiesHandler serves the cross-fund popularity ranking and the
// per-security holder list.
type SecuritiesHandler struct {
	logger *common.Logger
	state  State
	prices PriceSource
}

// NewSecuritiesHandler creates a new securities handler. prices may be
// nil when no market data source is configured.
func NewSecuritiesHandler(logger *common.Logger, state State, prices PriceSource) *SecuritiesHandler {
	return &SecuritiesHandler{logger: logger, state: state, prices: prices}
}

// Popular handles GET /api/securities/popular?top=N.
func (h *SecuritiesHandler) Popular(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	popular := h.state.Reporter().Popular(topN(r, defaultPopularCount))

	rows := make([]popularRow, len(popular))
	for i, p := range popular {
		rows[i] = popularRow{PopularSecurity: p}
	}

	if h.prices != nil && r.URL.Query().Get("quotes") == "1" {
		tickers := make([]string, 0, len(popular))
		for _, p := range popular {
			if p.Ticker != "" {
				tickers = append(tickers, p.Ticker)
			}
		}
		quotes := h.prices.Changes(r.Context(), tickers)
		for i := range rows {
			if q, ok := quotes[rows[i].Ticker]; ok {
				quote := q
				rows[i].PriceChange = &quote
			}
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   rows,
	})
}

// Holders handles GET /api/securities/{cusip}/holders?top=N.
func (h *SecuritiesHandler) Holders(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/securities/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] != "holders" {
		WriteError(w, http.StatusNotFound, "unknown securities endpoint")
		return
	}
	cusip := strings.ToUpper(parts[0])

	holders := h.state.Reporter().Holders(cusip, topN(r, 0))
	if len(holders) == 0 {
		WriteError(w, http.StatusNotFound, "no holders for CUSIP: "+cusip)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cusip":  cusip,
		"data":   holders,
	})
}
