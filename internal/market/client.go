// Package market fetches recent price movement for mapped tickers from
// the EODHD end-of-day API. Lookups are best effort: a slow or failing
// provider yields an unknown quote, never an error the dashboard has to
// handle.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fundlens/fundlens/internal/cache"
	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/config"
	"github.com/fundlens/fundlens/internal/models"
)

// Client communicates with the EODHD REST API.
type Client struct {
	baseURL    string
	apiKey     string
	period     string
	timeout    time.Duration
	httpClient *http.Client
	quotes     *cache.QuoteCache
	logger     *common.Logger
}

// NewClient creates a market client from configuration. A nil logger is
// replaced with a silent one.
func NewClient(cfg *config.MarketConfig, logger *common.Logger) *Client {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	timeout := cfg.GetTimeout()
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		period:     cfg.Period,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		quotes:     cache.New(cfg.GetCacheTTL(), cfg.CacheEntries),
		logger:     logger,
	}
}

// periodLookback maps a lookback period label to a calendar window.
func periodLookback(period string) time.Duration {
	days := map[string]int{
		"1d":  1,
		"5d":  7,
		"1mo": 31,
		"3mo": 92,
		"6mo": 183,
		"1y":  365,
	}[period]
	if days == 0 {
		days = 31
	}
	return time.Duration(days) * 24 * time.Hour
}

// bar is one row of the EODHD /eod response.
type bar struct {
	Date  string  `json:"date"`
	Close float64 `json:"adjusted_close"`
}

// PriceChange returns the percentage price movement of a ticker over the
// configured period. Failures and timeouts come back as Known=false with
// a nil error; only an unusable configuration is worth surfacing.
func (c *Client) PriceChange(ctx context.Context, ticker string) models.PriceChange {
	unknown := models.PriceChange{Ticker: ticker, FetchedAt: time.Now()}
	if ticker == "" || c.apiKey == "" {
		return unknown
	}

	key := cache.MakeKey(ticker, c.period)
	if quote, ok := c.quotes.Get(key); ok {
		return quote
	}

	bars, err := c.fetchDaily(ctx, ticker)
	if err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("price lookup failed")
		return unknown
	}
	if len(bars) < 2 {
		c.logger.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("not enough price history")
		return unknown
	}

	first, last := bars[0].Close, bars[len(bars)-1].Close
	if first == 0 {
		return unknown
	}

	quote := models.PriceChange{
		Ticker:    ticker,
		ChangePct: (last - first) / first * 100,
		Known:     true,
		FetchedAt: time.Now(),
	}
	c.quotes.Set(key, quote)
	return quote
}

// fetchDaily fetches the daily close series for the configured period.
// GET /eod/{ticker}.US -> [ { date, adjusted_close, ... }, ... ]
func (c *Client) fetchDaily(ctx context.Context, ticker string) ([]bar, error) {
	from := time.Now().Add(-periodLookback(c.period)).Format("2006-01-02")
	addr := fmt.Sprintf("%s/eod/%s.US?fmt=json&api_token=%s&from=%s&order=a",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey), from)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach market API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market API returned %d: %s", resp.StatusCode, string(body))
	}

	var bars []bar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return bars, nil
}

// Changes looks up several tickers, reusing cached quotes where present.
func (c *Client) Changes(ctx context.Context, tickers []string) map[string]models.PriceChange {
	out := make(map[string]models.PriceChange, len(tickers))
	for _, ticker := range tickers {
		if ticker == "" {
			continue
		}
		if _, seen := out[ticker]; seen {
			continue
		}
		out[ticker] = c.PriceChange(ctx, ticker)
	}
	return out
}

// FlushCache drops every cached quote. Called on dataset reload.
func (c *Client) FlushCache() {
	c.quotes.Clear()
}
