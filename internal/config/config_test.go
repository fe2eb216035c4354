package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 4310 {
		t.Errorf("expected default port 4310, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Data.Dir != "./data" {
		t.Errorf("expected default data dir ./data, got %s", cfg.Data.Dir)
	}
	if cfg.Search.CandidateCap != 50 {
		t.Errorf("expected default candidate cap 50, got %d", cfg.Search.CandidateCap)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 4310 {
		t.Errorf("expected default port 4310, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 9090
host = "0.0.0.0"

[data]
dir = "/srv/13f"

[search]
candidate_cap = 100
min_score = 0.5
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Data.Dir != "/srv/13f" {
		t.Errorf("expected data dir /srv/13f, got %s", cfg.Data.Dir)
	}
	if cfg.Search.CandidateCap != 100 {
		t.Errorf("expected candidate cap 100, got %d", cfg.Search.CandidateCap)
	}
	if cfg.Search.MinScore != 0.5 {
		t.Errorf("expected min score 0.5, got %g", cfg.Search.MinScore)
	}
}

func TestLoadFromFiles_LaterFileOverrides(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	os.WriteFile(base, []byte("[server]\nport = 5000\nhost = \"base\"\n"), 0644)

	override := filepath.Join(dir, "override.toml")
	os.WriteFile(override, []byte("[server]\nport = 6000\n"), 0644)

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 6000 {
		t.Errorf("expected override port 6000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base" {
		t.Errorf("expected base host to survive, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/path.toml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "bad.toml")
	os.WriteFile(tomlPath, []byte("this is not toml ["), 0644)

	_, err := LoadFromFiles(tomlPath)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FUNDLENS_SERVER_PORT", "7777")
	t.Setenv("FUNDLENS_DATA_DIR", "/env/data")
	t.Setenv("FUNDLENS_LOG_LEVEL", "debug")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("expected env port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Data.Dir != "/env/data" {
		t.Errorf("expected env data dir /env/data, got %s", cfg.Data.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level debug, got %s", cfg.Logging.Level)
	}
}

func TestEnvOverride_InvalidPortIgnored(t *testing.T) {
	t.Setenv("FUNDLENS_SERVER_PORT", "not-a-number")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4310 {
		t.Errorf("invalid env port should be ignored, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 8123, "flaghost", "/flag/data")

	if cfg.Server.Port != 8123 {
		t.Errorf("expected flag port 8123, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "flaghost" {
		t.Errorf("expected flag host, got %s", cfg.Server.Host)
	}
	if cfg.Data.Dir != "/flag/data" {
		t.Errorf("expected flag data dir, got %s", cfg.Data.Dir)
	}

	// Zero values leave config untouched
	ApplyFlagOverrides(cfg, 0, "", "")
	if cfg.Server.Port != 8123 || cfg.Server.Host != "flaghost" {
		t.Error("zero flag values must not override config")
	}
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("default config should validate, got issues: %v", issues)
	}

	cfg.Server.Port = 0
	cfg.Data.Dir = "  "
	cfg.Search.CandidateCap = -1
	cfg.Market.Timeout = "soon"
	issues := cfg.Validate()
	if len(issues) != 4 {
		t.Errorf("expected 4 issues, got %d: %v", len(issues), issues)
	}
}

func TestIsDevMode(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.IsDevMode() {
		t.Error("prod config must not report dev mode")
	}
	cfg.Environment = "dev"
	if !cfg.IsDevMode() {
		t.Error("expected dev mode")
	}
}

func TestNormalizeEnvironment(t *testing.T) {
	cases := map[string]string{
		"development": "dev",
		"production":  "prod",
		"Dev":         "Dev",
		"":            "",
	}
	for in, want := range cases {
		if got := normalizeEnvironment(in); got != want {
			t.Errorf("normalizeEnvironment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDataPaths(t *testing.T) {
	d := DataConfig{Dir: "/srv/13f"}
	if d.HoldingsPath() != "/srv/13f/INFOTABLE.tsv" {
		t.Errorf("unexpected holdings path %s", d.HoldingsPath())
	}
	if d.CoverPath() != "/srv/13f/COVERPAGE.tsv" {
		t.Errorf("unexpected cover path %s", d.CoverPath())
	}
	if d.SummaryPath() != "/srv/13f/SUMMARYPAGE.tsv" {
		t.Errorf("unexpected summary path %s", d.SummaryPath())
	}
}

func TestMarketDurations(t *testing.T) {
	m := MarketConfig{Timeout: "2s", CacheTTL: "1m"}
	if m.GetTimeout().Seconds() != 2 {
		t.Errorf("expected 2s timeout, got %v", m.GetTimeout())
	}
	if m.GetCacheTTL().Minutes() != 1 {
		t.Errorf("expected 1m cache TTL, got %v", m.GetCacheTTL())
	}

	bad := MarketConfig{Timeout: "garbage", CacheTTL: ""}
	if bad.GetTimeout().Seconds() != 5 {
		t.Errorf("expected 5s fallback timeout, got %v", bad.GetTimeout())
	}
	if bad.GetCacheTTL().Minutes() != 15 {
		t.Errorf("expected 15m fallback TTL, got %v", bad.GetCacheTTL())
	}
}
