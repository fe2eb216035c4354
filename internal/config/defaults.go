package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		Data: DataConfig{
			Dir:       "./data",
			ChunkDir:  "./data/chunks",
			TickerMap: "./data/company_ticker.csv",
		},
		Search: SearchConfig{
			CandidateCap: 50,
			MinScore:     0.3,
			ResultLimit:  20,
		},
		Market: MarketConfig{
			BaseURL:      "https://eodhd.com/api",
			Timeout:      "5s",
			Period:       "1mo",
			CacheTTL:     "15m",
			CacheEntries: 2000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
