package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fundlens/fundlens/internal/config"
)

func testConfig(baseURL string) *config.MarketConfig {
	return &config.MarketConfig{
		BaseURL:      baseURL,
		APIKey:       "test-key",
		Timeout:      "2s",
		Period:       "1mo",
		CacheTTL:     "15m",
		CacheEntries: 100,
	}
}

func barsJSON(closes ...float64) string {
	rows := make([]string, len(closes))
	for i, c := range closes {
		rows[i] = fmt.Sprintf(`{"date":"2025-11-%02d","adjusted_close":%f}`, i+1, c)
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func TestPriceChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/eod/NVDA.US") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "test-key" {
			t.Errorf("missing api token: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, barsJSON(100, 105, 110))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	quote := c.PriceChange(context.Background(), "NVDA")

	if !quote.Known {
		t.Fatal("expected known quote")
	}
	if quote.ChangePct < 9.99 || quote.ChangePct > 10.01 {
		t.Errorf("expected +10%% change, got %f", quote.ChangePct)
	}
	if quote.Ticker != "NVDA" {
		t.Errorf("unexpected ticker: %s", quote.Ticker)
	}
}

func TestPriceChangeCached(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, barsJSON(100, 120))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	for i := 0; i < 3; i++ {
		if quote := c.PriceChange(context.Background(), "AAPL"); !quote.Known {
			t.Fatalf("lookup %d failed", i)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}

	c.FlushCache()
	c.PriceChange(context.Background(), "AAPL")
	if got := hits.Load(); got != 2 {
		t.Errorf("expected refetch after flush, got %d calls", got)
	}
}

func TestPriceChangeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	quote := NewClient(testConfig(srv.URL), nil).PriceChange(context.Background(), "NVDA")
	if quote.Known {
		t.Error("server error should yield an unknown quote")
	}
	if quote.Ticker != "NVDA" {
		t.Errorf("unknown quote should keep the ticker, got %q", quote.Ticker)
	}
}

func TestPriceChangeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, barsJSON(100, 110))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = "20ms"

	start := time.Now()
	quote := NewClient(cfg, nil).PriceChange(context.Background(), "NVDA")
	if quote.Known {
		t.Error("timeout should yield an unknown quote, not an error")
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("lookup should be bounded by the timeout, took %v", elapsed)
	}
}

func TestPriceChangeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	if quote := NewClient(testConfig(srv.URL), nil).PriceChange(context.Background(), "NVDA"); quote.Known {
		t.Error("malformed body should yield an unknown quote")
	}
}

func TestPriceChangeTooFewBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, barsJSON(100))
	}))
	defer srv.Close()

	if quote := NewClient(testConfig(srv.URL), nil).PriceChange(context.Background(), "NVDA"); quote.Known {
		t.Error("a single bar cannot produce a change percentage")
	}
}

func TestPriceChangeNoTickerOrKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	if quote := c.PriceChange(context.Background(), ""); quote.Known {
		t.Error("empty ticker should yield an unknown quote")
	}

	cfg := testConfig(srv.URL)
	cfg.APIKey = ""
	if quote := NewClient(cfg, nil).PriceChange(context.Background(), "NVDA"); quote.Known {
		t.Error("missing API key should yield an unknown quote")
	}
}

func TestChanges(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, barsJSON(100, 101))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	out := c.Changes(context.Background(), []string{"NVDA", "AAPL", "NVDA", ""})

	if len(out) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(out))
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("duplicate tickers should be fetched once, got %d calls", got)
	}
}

func TestPeriodLookback(t *testing.T) {
	if periodLookback("1y") != 365*24*time.Hour {
		t.Error("unexpected 1y lookback")
	}
	if periodLookback("bogus") != 31*24*time.Hour {
		t.Error("unknown period should fall back to one month")
	}
}
