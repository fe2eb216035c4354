package dataset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens/internal/models"
)

// Warnings accumulates non-fatal row-level problems found during a load.
// They are reported as counts, never as errors.
type Warnings struct {
	ShortRows       int `json:"short_rows"`       // rows with fewer cells than the header
	BadValues       int `json:"bad_values"`       // VALUE cells that failed numeric coercion
	BadShares       int `json:"bad_shares"`       // SSHPRNAMT cells that failed numeric coercion
	BadTotals       int `json:"bad_totals"`       // TABLEVALUETOTAL cells that failed numeric coercion
	BadEntryCounts  int `json:"bad_entry_counts"` // TABLEENTRYTOTAL cells that failed numeric coercion
	UnresolvedJoins int `json:"unresolved_joins"` // holdings whose accession has no cover-page row
	MissingNames    int `json:"missing_names"`    // holdings with an empty issuer name
}

// Total returns the combined warning count.
func (w Warnings) Total() int {
	return w.ShortRows + w.BadValues + w.BadShares + w.BadTotals +
		w.BadEntryCounts + w.UnresolvedJoins + w.MissingNames
}

// Snapshot is the unified in-memory table plus its companion lookups.
// A snapshot is immutable after Load returns; a reload builds a fresh one.
type Snapshot struct {
	Holdings    []models.Holding
	Filings     map[string]models.Filing
	Summaries   map[string]models.FilingSummary
	ByAccession map[string][]int // accession -> holding row ids
	Warnings    Warnings
	LoadedAt    time.Time
}

// HoldingCount returns the number of rows in the unified table.
func (s *Snapshot) HoldingCount() int { return len(s.Holdings) }

// FundCount returns the number of filings.
func (s *Snapshot) FundCount() int { return len(s.Filings) }

// TotalValue sums the reported summary-page totals across all filings.
func (s *Snapshot) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, summary := range s.Summaries {
		total = total.Add(summary.TableValueTotal)
	}
	return total
}

// FundTotal sums the holding values of one filing.
func (s *Snapshot) FundTotal(accession string) decimal.Decimal {
	total := decimal.Zero
	for _, id := range s.ByAccession[accession] {
		total = total.Add(s.Holdings[id].Value)
	}
	return total
}

// Divergence records a filing whose aggregated holdings differ from its
// summary-page total by more than the tolerance. Diagnostic only.
type Divergence struct {
	Accession  string          `json:"accession"`
	Aggregated decimal.Decimal `json:"aggregated"`
	Reported   decimal.Decimal `json:"reported"`
}

// CrossCheck compares aggregated per-filing totals against the summary-page
// totals and returns the filings that diverge by more than tolerancePct
// percent. Mismatches can come from late amendments, so this is a
// data-quality diagnostic, not a validation failure.
func (s *Snapshot) CrossCheck(tolerancePct float64) []Divergence {
	tolerance := decimal.NewFromFloat(tolerancePct / 100)

	var out []Divergence
	for accession, summary := range s.Summaries {
		if summary.TableValueTotal.IsZero() {
			continue
		}
		aggregated := s.FundTotal(accession)
		diff := aggregated.Sub(summary.TableValueTotal).Abs()
		if diff.Div(summary.TableValueTotal).GreaterThan(tolerance) {
			out = append(out, Divergence{
				Accession:  accession,
				Aggregated: aggregated,
				Reported:   summary.TableValueTotal,
			})
		}
	}
	return out
}
