package models

import "time"

// PriceChange holds the percentage price movement of one ticker over the
// configured period. Known is false when the lookup failed or timed out;
// callers render a neutral tile in that case.
type PriceChange struct {
	Ticker    string    `json:"ticker"`
	ChangePct float64   `json:"change_pct"`
	Known     bool      `json:"known"`
	FetchedAt time.Time `json:"fetched_at"`
}

// SecurityInfo resolves an issuer name to a tradable symbol and sector.
// Sector is "Unknown" when the mapping file has no entry.
type SecurityInfo struct {
	CompanyName string `json:"company_name"`
	Ticker      string `json:"ticker"`
	Sector      string `json:"sector"`
	Source      string `json:"source,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}
