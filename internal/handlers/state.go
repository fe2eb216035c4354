package handlers

import (
	"context"

	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/models"
	"github.com/fundlens/fundlens/internal/report"
	"github.com/fundlens/fundlens/internal/search"
)

// State exposes the current dataset snapshot and the query layers built
// over it. Implementations swap all three atomically on reload so a
// request never mixes data from two loads.
type State interface {
	Snapshot() *dataset.Snapshot
	Engine() *search.Engine
	Reporter() *report.Reporter
	Reload() error
}

// PriceSource looks up recent price movement for a set of tickers.
// Lookups are best effort; unknown quotes are returned, not errors.
type PriceSource interface {
	Changes(ctx context.Context, tickers []string) map[string]models.PriceChange
}
