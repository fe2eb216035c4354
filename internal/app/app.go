// Package app wires configuration, the dataset, the search index and
// all HTTP handlers into one application object.
package app

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/config"
	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/handlers"
	"github.com/fundlens/fundlens/internal/market"
	"github.com/fundlens/fundlens/internal/mcp"
	"github.com/fundlens/fundlens/internal/report"
	"github.com/fundlens/fundlens/internal/search"
	"github.com/fundlens/fundlens/internal/tickermap"
)

// state bundles one snapshot with the query layers built over it. The
// whole bundle is swapped atomically on reload so no request observes a
// snapshot paired with another load's index.
type state struct {
	snap     *dataset.Snapshot
	engine   *search.Engine
	reporter *report.Reporter
}

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger
	Market *market.Client

	current atomic.Pointer[state]

	// HTTP handlers
	PageHandler       *handlers.PageHandler
	HealthHandler     *handlers.HealthHandler
	VersionHandler    *handlers.VersionHandler
	FundsHandler      *handlers.FundsHandler
	SearchHandler     *handlers.SearchHandler
	SecuritiesHandler *handlers.SecuritiesHandler
	ExportHandler     *handlers.ExportHandler
	AdminHandler      *handlers.AdminHandler
	MCPHandler        *mcp.Handler
}

// New initializes the application: loads the dataset, builds the search
// index and creates all handlers.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
		Market: market.NewClient(&cfg.Market, logger),
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	if err := a.Reload(); err != nil {
		return nil, fmt.Errorf("initial dataset load failed: %w", err)
	}

	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// Reload loads the dataset and ticker mapping from disk, rebuilds the
// search index and swaps the bundle in atomically. On failure the
// previous state stays active.
func (a *App) Reload() error {
	tickers, err := tickermap.Load(a.Config.Data.TickerMap, a.Logger)
	if err != nil {
		return err
	}

	snap, err := dataset.NewLoader(a.Logger).Load(dataset.Paths{
		Holdings: a.Config.Data.HoldingsPath(),
		Cover:    a.Config.Data.CoverPath(),
		Summary:  a.Config.Data.SummaryPath(),
		ChunkDir: a.Config.Data.ChunkDir,
	})
	if err != nil {
		return err
	}

	idx := search.Build(snap, tickers.Ticker)
	engine := search.NewEngine(idx, search.Options{
		CandidateCap: a.Config.Search.CandidateCap,
		MinScore:     a.Config.Search.MinScore,
	})

	a.current.Store(&state{
		snap:     snap,
		engine:   engine,
		reporter: report.NewReporter(snap, tickers),
	})
	a.Market.FlushCache()

	a.Logger.Info().
		Int("holdings", snap.HoldingCount()).
		Int("funds", snap.FundCount()).
		Int("securities", idx.SecurityCount()).
		Msg("dataset state swapped")

	return nil
}

// Snapshot returns the current dataset snapshot, nil before first load.
func (a *App) Snapshot() *dataset.Snapshot {
	if s := a.current.Load(); s != nil {
		return s.snap
	}
	return nil
}

// Engine returns the current search engine.
func (a *App) Engine() *search.Engine {
	if s := a.current.Load(); s != nil {
		return s.engine
	}
	return nil
}

// Reporter returns the current report layer.
func (a *App) Reporter() *report.Reporter {
	if s := a.current.Load(); s != nil {
		return s.reporter
	}
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger, a, a.Config.IsDevMode())
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.FundsHandler = handlers.NewFundsHandler(a.Logger, a, a.Market)
	a.SearchHandler = handlers.NewSearchHandler(a.Logger, a, a.Config.Search.ResultLimit)
	a.SecuritiesHandler = handlers.NewSecuritiesHandler(a.Logger, a, a.Market)
	a.ExportHandler = handlers.NewExportHandler(a.Logger, a)
	a.AdminHandler = handlers.NewAdminHandler(a.Logger, a)
	a.MCPHandler = mcp.NewHandler(a.Logger, a)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
