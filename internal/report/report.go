// Package report computes presentation-ready aggregates over a loaded
// filing snapshot: per-fund summaries, cross-fund popularity rankings
// and treemap payloads.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/models"
	"github.com/fundlens/fundlens/internal/tickermap"
)

// Reporter answers aggregate queries against one immutable snapshot.
// A reload builds a new Reporter alongside the new snapshot.
type Reporter struct {
	snap    *dataset.Snapshot
	tickers *tickermap.Map
}

// NewReporter wires a snapshot with the ticker mapping used for sector
// and ticker enrichment.
func NewReporter(snap *dataset.Snapshot, tickers *tickermap.Map) *Reporter {
	return &Reporter{snap: snap, tickers: tickers}
}

// FundOverview is one row of the fund list.
type FundOverview struct {
	Accession    string          `json:"accession"`
	ManagerName  string          `json:"manager_name"`
	ReportPeriod string          `json:"report_period"`
	TotalValue   decimal.Decimal `json:"total_value"`
	HoldingCount int             `json:"holding_count"`
}

// TopHolding is one position within a fund, aggregated by CUSIP.
type TopHolding struct {
	IssuerName string          `json:"issuer_name"`
	CUSIP      string          `json:"cusip"`
	Ticker     string          `json:"ticker,omitempty"`
	Sector     string          `json:"sector"`
	Value      decimal.Decimal `json:"value"`
	Shares     decimal.Decimal `json:"shares"`
	WeightPct  float64         `json:"weight_pct"`
}

// SectorSlice is one sector's share of a fund's portfolio.
type SectorSlice struct {
	Sector    string          `json:"sector"`
	Value     decimal.Decimal `json:"value"`
	WeightPct float64         `json:"weight_pct"`
}

// FundSummary is the full dashboard view of one filing.
type FundSummary struct {
	Accession    string          `json:"accession"`
	ManagerName  string          `json:"manager_name"`
	ReportPeriod string          `json:"report_period"`
	TotalValue   decimal.Decimal `json:"total_value"`
	HoldingCount int             `json:"holding_count"`
	TopHoldings  []TopHolding    `json:"top_holdings"`
	Sectors      []SectorSlice   `json:"sectors"`
}

// PopularSecurity is one row of the cross-fund popularity ranking.
type PopularSecurity struct {
	CUSIP       string          `json:"cusip"`
	IssuerName  string          `json:"issuer_name"`
	Ticker      string          `json:"ticker,omitempty"`
	Sector      string          `json:"sector"`
	HolderCount int             `json:"holder_count"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// Holder is one fund's position in a given security.
type Holder struct {
	Accession   string          `json:"accession"`
	ManagerName string          `json:"manager_name"`
	Value       decimal.Decimal `json:"value"`
	Shares      decimal.Decimal `json:"shares"`
	WeightPct   float64         `json:"weight_pct"`
}

// Funds lists every filing in the snapshot ordered by total value
// descending, accession ascending on ties. Funds with zero holdings
// are included.
func (r *Reporter) Funds() []FundOverview {
	out := make([]FundOverview, 0, len(r.snap.Filings))
	for accession, filing := range r.snap.Filings {
		out = append(out, FundOverview{
			Accession:    accession,
			ManagerName:  filing.ManagerName,
			ReportPeriod: filing.ReportPeriod,
			TotalValue:   r.snap.FundTotal(accession),
			HoldingCount: len(r.snap.ByAccession[accession]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].Accession < out[j].Accession
	})
	return out
}

// position accumulates one fund's exposure to a CUSIP.
type position struct {
	name   string
	value  decimal.Decimal
	shares decimal.Decimal
}

// fundPositions aggregates a fund's rows by CUSIP. Rows without a CUSIP
// are keyed by issuer name so they still appear in the summary.
func (r *Reporter) fundPositions(accession string) (map[string]*position, decimal.Decimal) {
	positions := make(map[string]*position)
	total := decimal.Zero
	for _, idx := range r.snap.ByAccession[accession] {
		h := r.snap.Holdings[idx]
		key := h.CUSIP
		if key == "" {
			key = h.IssuerName
		}
		p, ok := positions[key]
		if !ok {
			p = &position{name: h.IssuerName}
			positions[key] = p
		}
		if p.name == "" || (h.IssuerName != "" && h.IssuerName < p.name) {
			p.name = h.IssuerName
		}
		p.value = p.value.Add(h.Value)
		p.shares = p.shares.Add(h.Shares)
		total = total.Add(h.Value)
	}
	return positions, total
}

// weightPct computes part/total as a percentage, 0 when total is zero.
func weightPct(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	pct, _ := part.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// Summary builds the full dashboard view of one filing. ok is false if
// the accession is unknown.
func (r *Reporter) Summary(accession string, topN int) (FundSummary, bool) {
	filing, ok := r.snap.Filings[accession]
	if !ok {
		return FundSummary{}, false
	}

	positions, total := r.fundPositions(accession)

	top := make([]TopHolding, 0, len(positions))
	sectorValues := make(map[string]decimal.Decimal)
	for cusip, p := range positions {
		sector := r.tickers.Sector(p.name)
		ticker, _ := r.tickers.Ticker(p.name)
		top = append(top, TopHolding{
			IssuerName: p.name,
			CUSIP:      cusip,
			Ticker:     ticker,
			Sector:     sector,
			Value:      p.value,
			Shares:     p.shares,
			WeightPct:  weightPct(p.value, total),
		})
		sectorValues[sector] = sectorValues[sector].Add(p.value)
	}
	sort.Slice(top, func(i, j int) bool {
		if !top[i].Value.Equal(top[j].Value) {
			return top[i].Value.GreaterThan(top[j].Value)
		}
		return top[i].CUSIP < top[j].CUSIP
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	sectors := make([]SectorSlice, 0, len(sectorValues))
	for sector, value := range sectorValues {
		sectors = append(sectors, SectorSlice{
			Sector:    sector,
			Value:     value,
			WeightPct: weightPct(value, total),
		})
	}
	sort.Slice(sectors, func(i, j int) bool {
		if !sectors[i].Value.Equal(sectors[j].Value) {
			return sectors[i].Value.GreaterThan(sectors[j].Value)
		}
		return sectors[i].Sector < sectors[j].Sector
	})

	return FundSummary{
		Accession:    accession,
		ManagerName:  filing.ManagerName,
		ReportPeriod: filing.ReportPeriod,
		TotalValue:   total,
		HoldingCount: len(r.snap.ByAccession[accession]),
		TopHoldings:  top,
		Sectors:      sectors,
	}, true
}

// Popular ranks securities by how many distinct funds hold them, total
// value breaking ties. Rows without a CUSIP are excluded.
func (r *Reporter) Popular(topN int) []PopularSecurity {
	type agg struct {
		name    string
		value   decimal.Decimal
		holders map[string]struct{}
	}
	byCUSIP := make(map[string]*agg)
	for _, h := range r.snap.Holdings {
		if h.CUSIP == "" {
			continue
		}
		a, ok := byCUSIP[h.CUSIP]
		if !ok {
			a = &agg{name: h.IssuerName, holders: make(map[string]struct{})}
			byCUSIP[h.CUSIP] = a
		}
		if a.name == "" || (h.IssuerName != "" && h.IssuerName < a.name) {
			a.name = h.IssuerName
		}
		a.value = a.value.Add(h.Value)
		a.holders[h.Accession] = struct{}{}
	}

	out := make([]PopularSecurity, 0, len(byCUSIP))
	for cusip, a := range byCUSIP {
		ticker, _ := r.tickers.Ticker(a.name)
		out = append(out, PopularSecurity{
			CUSIP:       cusip,
			IssuerName:  a.name,
			Ticker:      ticker,
			Sector:      r.tickers.Sector(a.name),
			HolderCount: len(a.holders),
			TotalValue:  a.value,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HolderCount != out[j].HolderCount {
			return out[i].HolderCount > out[j].HolderCount
		}
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].CUSIP < out[j].CUSIP
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Holders lists the funds holding a CUSIP, largest position first. The
// weight is the position's share of that fund's own portfolio.
func (r *Reporter) Holders(cusip string, topN int) []Holder {
	type agg struct {
		value  decimal.Decimal
		shares decimal.Decimal
	}
	byFund := make(map[string]*agg)
	for _, h := range r.snap.Holdings {
		if h.CUSIP != cusip {
			continue
		}
		a, ok := byFund[h.Accession]
		if !ok {
			a = &agg{}
			byFund[h.Accession] = a
		}
		a.value = a.value.Add(h.Value)
		a.shares = a.shares.Add(h.Shares)
	}

	out := make([]Holder, 0, len(byFund))
	for accession, a := range byFund {
		filing := r.snap.Filings[accession]
		out = append(out, Holder{
			Accession:   accession,
			ManagerName: filing.ManagerName,
			Value:       a.value,
			Shares:      a.shares,
			WeightPct:   weightPct(a.value, r.snap.FundTotal(accession)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Value.Equal(out[j].Value) {
			return out[i].Value.GreaterThan(out[j].Value)
		}
		return out[i].Accession < out[j].Accession
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// lookupInfo returns the mapping entry for an issuer name, filling
// Unknown defaults when unmapped.
func (r *Reporter) lookupInfo(name string) models.SecurityInfo {
	if info, ok := r.tickers.Get(name); ok {
		return info
	}
	return models.SecurityInfo{CompanyName: name, Sector: "Unknown"}
}
