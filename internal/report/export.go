package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Export table names accepted by ExportCSV.
const (
	TableHoldings  = "holdings"
	TableFunds     = "funds"
	TableSummaries = "summaries"
)

// ExportCSV streams one snapshot table as CSV. Unknown table names
// return an error before any bytes are written.
func (r *Reporter) ExportCSV(w io.Writer, table string) error {
	switch table {
	case TableHoldings:
		return r.exportHoldings(w)
	case TableFunds:
		return r.exportFunds(w)
	case TableSummaries:
		return r.exportSummaries(w)
	default:
		return fmt.Errorf("unknown export table %q", table)
	}
}

func (r *Reporter) exportHoldings(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"accession", "manager_name", "issuer_name", "class_title", "cusip", "value", "shares", "option"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write holdings export: %w", err)
	}
	for _, h := range r.snap.Holdings {
		record := []string{
			h.Accession,
			h.ManagerName,
			h.IssuerName,
			h.ClassTitle,
			h.CUSIP,
			h.Value.String(),
			h.Shares.String(),
			string(h.Option),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write holdings export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r *Reporter) exportFunds(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"accession", "manager_name", "report_period", "total_value", "holding_count"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write funds export: %w", err)
	}
	for _, f := range r.Funds() {
		record := []string{
			f.Accession,
			f.ManagerName,
			f.ReportPeriod,
			f.TotalValue.String(),
			strconv.Itoa(f.HoldingCount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write funds export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r *Reporter) exportSummaries(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"accession", "table_value_total", "table_entry_total"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write summaries export: %w", err)
	}
	accessions := make([]string, 0, len(r.snap.Summaries))
	for accession := range r.snap.Summaries {
		accessions = append(accessions, accession)
	}
	sort.Strings(accessions)
	for _, accession := range accessions {
		s := r.snap.Summaries[accession]
		record := []string{
			accession,
			s.TableValueTotal.String(),
			strconv.FormatInt(s.TableEntryTotal, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write summaries export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
