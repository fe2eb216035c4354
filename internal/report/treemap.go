package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens/internal/models"
)

// TreemapLeaf is one holding tile, sized by position value. PriceChange
// stays nil until a market quote is attached by the serving layer.
type TreemapLeaf struct {
	IssuerName  string              `json:"issuer_name"`
	CUSIP       string              `json:"cusip"`
	Ticker      string              `json:"ticker,omitempty"`
	Value       float64             `json:"value"`
	WeightPct   float64             `json:"weight_pct"`
	PriceChange *models.PriceChange `json:"price_change,omitempty"`
}

// TreemapGroup is one sector's tiles.
type TreemapGroup struct {
	Sector    string        `json:"sector"`
	Value     float64       `json:"value"`
	WeightPct float64       `json:"weight_pct"`
	Holdings  []TreemapLeaf `json:"holdings"`
}

// Treemap is the sector-grouped payload behind the dashboard treemap.
type Treemap struct {
	Accession   string         `json:"accession"`
	ManagerName string         `json:"manager_name"`
	TotalValue  float64        `json:"total_value"`
	Groups      []TreemapGroup `json:"groups"`
}

// TreemapFor builds the treemap payload for one filing. Values are
// emitted as float64 since the payload feeds a charting library, not
// accounting code.
func (r *Reporter) TreemapFor(accession string) (Treemap, bool) {
	filing, ok := r.snap.Filings[accession]
	if !ok {
		return Treemap{}, false
	}

	positions, total := r.fundPositions(accession)

	grouped := make(map[string][]TreemapLeaf)
	groupTotals := make(map[string]decimal.Decimal)
	for cusip, p := range positions {
		info := r.lookupInfo(p.name)
		value, _ := p.value.Float64()
		grouped[info.Sector] = append(grouped[info.Sector], TreemapLeaf{
			IssuerName: p.name,
			CUSIP:      cusip,
			Ticker:     info.Ticker,
			Value:      value,
			WeightPct:  weightPct(p.value, total),
		})
		groupTotals[info.Sector] = groupTotals[info.Sector].Add(p.value)
	}

	groups := make([]TreemapGroup, 0, len(grouped))
	for sector, leaves := range grouped {
		sort.Slice(leaves, func(i, j int) bool {
			if leaves[i].Value != leaves[j].Value {
				return leaves[i].Value > leaves[j].Value
			}
			return leaves[i].CUSIP < leaves[j].CUSIP
		})
		value, _ := groupTotals[sector].Float64()
		groups = append(groups, TreemapGroup{
			Sector:    sector,
			Value:     value,
			WeightPct: weightPct(groupTotals[sector], total),
			Holdings:  leaves,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Value != groups[j].Value {
			return groups[i].Value > groups[j].Value
		}
		return groups[i].Sector < groups[j].Sector
	})

	totalValue, _ := total.Float64()
	return Treemap{
		Accession:   accession,
		ManagerName: filing.ManagerName,
		TotalValue:  totalValue,
		Groups:      groups,
	}, true
}
