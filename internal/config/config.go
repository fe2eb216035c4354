package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Data        DataConfig    `toml:"data"`
	Search      SearchConfig  `toml:"search"`
	Market      MarketConfig  `toml:"market"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// DataConfig contains source-file settings for the 13F tables.
type DataConfig struct {
	Dir       string `toml:"dir"`        // directory holding the TSV files
	ChunkDir  string `toml:"chunk_dir"`  // optional chunk directory for the detail table
	TickerMap string `toml:"ticker_map"` // company name -> ticker/sector CSV
}

// HoldingsPath returns the path to the holdings detail table.
func (d *DataConfig) HoldingsPath() string { return d.Dir + "/INFOTABLE.tsv" }

// CoverPath returns the path to the filing cover-page table.
func (d *DataConfig) CoverPath() string { return d.Dir + "/COVERPAGE.tsv" }

// SummaryPath returns the path to the filing summary table.
func (d *DataConfig) SummaryPath() string { return d.Dir + "/SUMMARYPAGE.tsv" }

// SearchConfig contains search engine tuning.
type SearchConfig struct {
	CandidateCap int     `toml:"candidate_cap"` // max fuzzy candidates scored per query
	MinScore     float64 `toml:"min_score"`     // results below this score are dropped
	ResultLimit  int     `toml:"result_limit"`  // default result count per query
}

// MarketConfig contains the external market-data client settings.
type MarketConfig struct {
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	Timeout      string `toml:"timeout"`
	Period       string `toml:"period"` // price-change window, e.g. "1mo"
	CacheTTL     string `toml:"cache_ttl"`
	CacheEntries int    `toml:"cache_entries"`
}

// GetTimeout parses and returns the per-call timeout duration.
func (m *MarketConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(m.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GetCacheTTL parses and returns the quote cache TTL.
func (m *MarketConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(m.CacheTTL)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	config.Environment = normalizeEnvironment(config.Environment)

	return config, nil
}

// applyEnvOverrides applies FUNDLENS_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FUNDLENS_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("FUNDLENS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FUNDLENS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if dir := os.Getenv("FUNDLENS_DATA_DIR"); dir != "" {
		config.Data.Dir = dir
	}
	if chunks := os.Getenv("FUNDLENS_CHUNK_DIR"); chunks != "" {
		config.Data.ChunkDir = chunks
	}
	if tm := os.Getenv("FUNDLENS_TICKER_MAP"); tm != "" {
		config.Data.TickerMap = tm
	}
	if key := os.Getenv("FUNDLENS_MARKET_API_KEY"); key != "" {
		config.Market.APIKey = key
	}
	if level := os.Getenv("FUNDLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("FUNDLENS_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string, dataDir string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if dataDir != "" {
		config.Data.Dir = dataDir
	}
}

// Validate checks mandatory fields and returns a list of human-readable issues.
// An empty slice means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if strings.TrimSpace(c.Data.Dir) == "" {
		issues = append(issues, "data.dir is required: directory containing INFOTABLE.tsv, COVERPAGE.tsv and SUMMARYPAGE.tsv")
	}
	if c.Search.CandidateCap <= 0 {
		issues = append(issues, fmt.Sprintf("search.candidate_cap must be positive (got %d)", c.Search.CandidateCap))
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		issues = append(issues, fmt.Sprintf("search.min_score must be within [0,1] (got %g)", c.Search.MinScore))
	}
	if c.Market.Timeout != "" {
		if _, err := time.ParseDuration(c.Market.Timeout); err != nil {
			issues = append(issues, fmt.Sprintf("market.timeout is not a valid duration: %q", c.Market.Timeout))
		}
	}

	return issues
}

// IsDevMode returns true when running in dev mode.
func (c *Config) IsDevMode() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "dev"
}

// normalizeEnvironment maps environment aliases to their canonical short forms.
// "development" -> "dev", "production" -> "prod". All other values pass through unchanged.
func normalizeEnvironment(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development":
		return "dev"
	case "production":
		return "prod"
	default:
		return env
	}
}
