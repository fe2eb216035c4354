// Package tickermap resolves 13F issuer names to exchange tickers and
// sectors using a maintained CSV mapping file.
package tickermap

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/models"
)

// Map holds the in-memory name -> ticker/sector mapping. Read-only after
// Load; a reload builds a fresh Map.
type Map struct {
	entries map[string]models.SecurityInfo // keyed by canonical company name
	logger  *common.Logger
}

// canonical normalizes a company name for lookup: uppercase, trimmed,
// collapsed whitespace.
func canonical(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

// Load reads the mapping CSV (company_name, ticker, sector, source,
// last_updated). A missing file yields an empty map, not an error: the
// dashboard degrades to unresolved tickers and "Unknown" sectors.
func Load(path string, logger *common.Logger) (*Map, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	m := &Map{
		entries: make(map[string]models.SecurityInfo),
		logger:  logger,
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("ticker mapping file not found, sectors will be unknown")
			return m, nil
		}
		return nil, fmt.Errorf("failed to open ticker mapping %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker mapping header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"company_name", "ticker"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ticker mapping %s has no %s column", path, required)
		}
	}

	get := func(record []string, col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ticker mapping: %w", err)
		}

		name := get(record, "company_name")
		ticker := get(record, "ticker")
		if name == "" || ticker == "" {
			continue
		}

		sector := get(record, "sector")
		if sector == "" {
			sector = "Unknown"
		}

		m.entries[canonical(name)] = models.SecurityInfo{
			CompanyName: name,
			Ticker:      strings.ToUpper(ticker),
			Sector:      sector,
			Source:      get(record, "source"),
			LastUpdated: get(record, "last_updated"),
		}
	}

	logger.Info().Int("entries", len(m.entries)).Str("path", path).Msg("ticker mapping loaded")
	return m, nil
}

// Get returns the full mapping entry for a company name.
func (m *Map) Get(companyName string) (models.SecurityInfo, bool) {
	info, ok := m.entries[canonical(companyName)]
	return info, ok
}

// Ticker returns the ticker for a company name, or "" when unmapped.
func (m *Map) Ticker(companyName string) (string, bool) {
	info, ok := m.Get(companyName)
	if !ok {
		return "", false
	}
	return info.Ticker, true
}

// Sector returns the sector for a company name, "Unknown" when unmapped.
func (m *Map) Sector(companyName string) string {
	info, ok := m.Get(companyName)
	if !ok || info.Sector == "" {
		return "Unknown"
	}
	return info.Sector
}

// Len returns the number of mapping entries.
func (m *Map) Len() int { return len(m.entries) }
