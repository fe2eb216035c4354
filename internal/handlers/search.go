package handlers

import (
	"net/http"
	"strconv"

	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/search"
)

// SearchHandler answers free-text queries over securities and funds.
type SearchHandler struct {
	logger *common.Logger
	state  State
	limit  int
}

// NewSearchHandler creates a new search handler with a default result limit.
func NewSearchHandler(logger *common.Logger, state State, defaultLimit int) *SearchHandler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &SearchHandler{logger: logger, state: state, limit: defaultLimit}
}

// ServeHTTP handles GET /api/search?q=...&domain=security|fund&limit=N.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "missing query parameter: q")
		return
	}

	domain := search.DomainSecurity
	switch r.URL.Query().Get("domain") {
	case "", "security":
	case "fund":
		domain = search.DomainFund
	default:
		WriteError(w, http.StatusBadRequest, "domain must be security or fund")
		return
	}

	limit := h.limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	matches := h.state.Engine().Search(query, domain, limit)
	h.logger.Debug().
		Str("query", query).
		Str("domain", string(domain)).
		Int("matches", len(matches)).
		Msg("search executed")

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"query":  query,
		"domain": string(domain),
		"data":   matches,
	})
}
