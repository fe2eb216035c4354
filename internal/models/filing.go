// Package models defines data structures for FundLens.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OptionType classifies a holding row as a direct position or an option.
type OptionType string

const (
	OptionNone OptionType = ""
	OptionPut  OptionType = "PUT"
	OptionCall OptionType = "CALL"
)

// ParseOptionType normalizes the PUTCALL column value.
// Anything other than put/call maps to OptionNone.
func ParseOptionType(s string) OptionType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PUT":
		return OptionPut
	case "CALL":
		return OptionCall
	default:
		return OptionNone
	}
}

// Holding is one row of the 13F detail table, enriched with attributes of
// its parent filing after the load-time join. Immutable once loaded.
type Holding struct {
	Accession    string          `json:"accession"`
	IssuerName   string          `json:"issuer_name"`
	ClassTitle   string          `json:"class_title,omitempty"`
	CUSIP        string          `json:"cusip"`
	Value        decimal.Decimal `json:"value"`  // reported position value, whole dollars
	Shares       decimal.Decimal `json:"shares"` // share or principal amount
	Option       OptionType      `json:"option,omitempty"`
	ManagerName  string          `json:"manager_name"`  // joined from the cover page
	ReportPeriod string          `json:"report_period"` // joined from the cover page
}

// Filing is one row of the cover-page table. The accession number is the
// primary key; a filing owns zero or more holdings.
type Filing struct {
	Accession    string `json:"accession"`
	ManagerName  string `json:"manager_name"`
	ReportPeriod string `json:"report_period"`
}

// FilingSummary is one row of the summary-page table, keyed one-to-one by
// accession number. Used as a data-quality cross-check against the
// aggregated holdings, never as an enforced invariant: filings legitimately
// diverge through late amendments.
type FilingSummary struct {
	Accession       string          `json:"accession"`
	TableValueTotal decimal.Decimal `json:"table_value_total"`
	TableEntryTotal int64           `json:"table_entry_total"`
}
