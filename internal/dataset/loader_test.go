package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fundlens/fundlens/internal/models"
)

const coverTSV = "ACCESSION_NUMBER\tFILINGMANAGER_NAME\tREPORTCALENDARORQUARTER\n" +
	"0001-23-000001\tLaurion Capital Management LP\t2023-03-31\n" +
	"0001-23-000002\tVanguard Group Inc\t2023-03-31\n" +
	"0001-23-000003\tEmpty Fund Advisors\t2023-03-31\n"

const summaryTSV = "ACCESSION_NUMBER\tTABLEVALUETOTAL\tTABLEENTRYTOTAL\n" +
	"0001-23-000001\t3500000\t2\n" +
	"0001-23-000002\t9000000\t2\n" +
	"0001-23-000003\t0\t0\n"

const holdingsTSV = "NAMEOFISSUER\tTITLEOFCLASS\tCUSIP\tVALUE\tSSHPRNAMT\tPUTCALL\tACCESSION_NUMBER\n" +
	"NVIDIA CORP\tCOM\t67066G104\t2000000\t4000\t\t0001-23-000001\n" +
	"APPLE INC\tCOM\t037833100\t1500000\t8000\t\t0001-23-000001\n" +
	"APPLE INC\tCOM\t037833100\t6000000\t32000\t\t0001-23-000002\n" +
	"MICROSOFT CORP\tCOM\t594918104\t3000000\t9000\tCall\t0001-23-000002\n"

// writeFixture writes the three standard tables into dir and returns Paths.
func writeFixture(t *testing.T, holdings, cover, summary string) Paths {
	t.Helper()
	dir := t.TempDir()

	paths := Paths{
		Holdings: filepath.Join(dir, "INFOTABLE.tsv"),
		Cover:    filepath.Join(dir, "COVERPAGE.tsv"),
		Summary:  filepath.Join(dir, "SUMMARYPAGE.tsv"),
	}
	if holdings != "" {
		os.WriteFile(paths.Holdings, []byte(holdings), 0644)
	}
	if cover != "" {
		os.WriteFile(paths.Cover, []byte(cover), 0644)
	}
	if summary != "" {
		os.WriteFile(paths.Summary, []byte(summary), 0644)
	}
	return paths
}

func TestLoad_JoinsHoldingsToFilings(t *testing.T) {
	paths := writeFixture(t, holdingsTSV, coverTSV, summaryTSV)

	snap, err := NewLoader(nil).Load(paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.HoldingCount() != 4 {
		t.Fatalf("expected 4 holdings, got %d", snap.HoldingCount())
	}
	if snap.FundCount() != 3 {
		t.Errorf("expected 3 filings, got %d", snap.FundCount())
	}

	h := snap.Holdings[0]
	if h.IssuerName != "NVIDIA CORP" {
		t.Errorf("unexpected issuer %q", h.IssuerName)
	}
	if h.ManagerName != "Laurion Capital Management LP" {
		t.Errorf("join did not enrich manager name, got %q", h.ManagerName)
	}
	if h.ReportPeriod != "2023-03-31" {
		t.Errorf("join did not enrich report period, got %q", h.ReportPeriod)
	}
	if h.Value.String() != "2000000" {
		t.Errorf("unexpected value %s", h.Value)
	}

	if snap.Holdings[3].Option != models.OptionCall {
		t.Errorf("PUTCALL Call should parse to OptionCall, got %q", snap.Holdings[3].Option)
	}
}

func TestLoad_HoldingCountPerFund(t *testing.T) {
	paths := writeFixture(t, holdingsTSV, coverTSV, summaryTSV)

	snap, err := NewLoader(nil).Load(paths)
	if err != nil {
		t.Fatal(err)
	}

	if got := len(snap.ByAccession["0001-23-000001"]); got != 2 {
		t.Errorf("expected 2 holdings for first fund, got %d", got)
	}
	if got := len(snap.ByAccession["0001-23-000002"]); got != 2 {
		t.Errorf("expected 2 holdings for second fund, got %d", got)
	}
	if got := len(snap.ByAccession["0001-23-000003"]); got != 0 {
		t.Errorf("expected 0 holdings for empty fund, got %d", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	paths := writeFixture(t, holdingsTSV, "", summaryTSV)

	_, err := NewLoader(nil).Load(paths)
	var missing *MissingDataFileError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDataFileError, got %v", err)
	}
	if missing.Path != paths.Cover {
		t.Errorf("error should name the cover file, got %s", missing.Path)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	// Detail table without the VALUE column.
	broken := "NAMEOFISSUER\tCUSIP\tSSHPRNAMT\tACCESSION_NUMBER\n" +
		"NVIDIA CORP\t67066G104\t4000\t0001-23-000001\n"
	paths := writeFixture(t, broken, coverTSV, summaryTSV)

	_, err := NewLoader(nil).Load(paths)
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
	if mismatch.Column != "VALUE" {
		t.Errorf("error should name the VALUE column, got %s", mismatch.Column)
	}
	if mismatch.File != paths.Holdings {
		t.Errorf("error should name the detail file, got %s", mismatch.File)
	}
}

func TestLoad_MalformedRowsCountedNotFatal(t *testing.T) {
	holdings := "NAMEOFISSUER\tTITLEOFCLASS\tCUSIP\tVALUE\tSSHPRNAMT\tPUTCALL\tACCESSION_NUMBER\n" +
		"NVIDIA CORP\tCOM\t67066G104\tnot-a-number\t4000\t\t0001-23-000001\n" + // bad value
		"APPLE INC\tCOM\t037833100\t1500000\toops\t\t0001-23-000001\n" + // bad shares
		"ORPHAN CORP\tCOM\t999999999\t100\t1\t\t9999-99-999999\n" + // unresolved join
		"shortrow\n" + // too few cells
		"MICROSOFT CORP\tCOM\t594918104\t3000000\t9000\t\t0001-23-000002\n"
	paths := writeFixture(t, holdings, coverTSV, summaryTSV)

	snap, err := NewLoader(nil).Load(paths)
	if err != nil {
		t.Fatalf("malformed rows must not be fatal: %v", err)
	}

	if snap.Warnings.BadValues != 1 {
		t.Errorf("expected 1 bad value, got %d", snap.Warnings.BadValues)
	}
	if snap.Warnings.BadShares != 1 {
		t.Errorf("expected 1 bad share count, got %d", snap.Warnings.BadShares)
	}
	if snap.Warnings.UnresolvedJoins != 1 {
		t.Errorf("expected 1 unresolved join, got %d", snap.Warnings.UnresolvedJoins)
	}
	if snap.Warnings.ShortRows != 1 {
		t.Errorf("expected 1 short row, got %d", snap.Warnings.ShortRows)
	}

	// Rows with coercion failures stay in the table with zero sentinels.
	if snap.HoldingCount() != 3 {
		t.Errorf("expected 3 surviving holdings, got %d", snap.HoldingCount())
	}
	if !snap.Holdings[0].Value.IsZero() {
		t.Errorf("bad value should coerce to zero sentinel, got %s", snap.Holdings[0].Value)
	}
}

func TestLoad_MalformedSummaryTotalsCountedNotFatal(t *testing.T) {
	summary := "ACCESSION_NUMBER\tTABLEVALUETOTAL\tTABLEENTRYTOTAL\n" +
		"0001-23-000001\tnot-a-number\talso-bad\n" +
		"0001-23-000002\t9000000\t2\n"
	paths := writeFixture(t, holdingsTSV, coverTSV, summary)

	snap, err := NewLoader(nil).Load(paths)
	if err != nil {
		t.Fatalf("malformed summary cells must not be fatal: %v", err)
	}

	if snap.Warnings.BadTotals != 1 {
		t.Errorf("expected 1 bad total, got %d", snap.Warnings.BadTotals)
	}
	if snap.Warnings.BadEntryCounts != 1 {
		t.Errorf("expected 1 bad entry count, got %d", snap.Warnings.BadEntryCounts)
	}
	if snap.Warnings.Total() < 2 {
		t.Errorf("summary warnings missing from total, got %d", snap.Warnings.Total())
	}

	// The row itself survives with zero sentinels.
	s, ok := snap.Summaries["0001-23-000001"]
	if !ok {
		t.Fatal("summary row with bad totals should still load")
	}
	if !s.TableValueTotal.IsZero() || s.TableEntryTotal != 0 {
		t.Errorf("bad totals should coerce to zero, got %s / %d", s.TableValueTotal, s.TableEntryTotal)
	}
}

func TestFundTotal(t *testing.T) {
	paths := writeFixture(t, holdingsTSV, coverTSV, summaryTSV)
	snap, err := NewLoader(nil).Load(paths)
	if err != nil {
		t.Fatal(err)
	}

	if got := snap.FundTotal("0001-23-000001").String(); got != "3500000" {
		t.Errorf("expected fund total 3500000, got %s", got)
	}
	if !snap.FundTotal("0001-23-000003").IsZero() {
		t.Error("empty fund should total zero")
	}
}

func TestCrossCheck(t *testing.T) {
	// Second fund's reported total disagrees with its aggregated holdings.
	summary := "ACCESSION_NUMBER\tTABLEVALUETOTAL\tTABLEENTRYTOTAL\n" +
		"0001-23-000001\t3500000\t2\n" +
		"0001-23-000002\t1000\t2\n"
	paths := writeFixture(t, holdingsTSV, coverTSV, summary)

	snap, err := NewLoader(nil).Load(paths)
	if err != nil {
		t.Fatal(err)
	}

	divergent := snap.CrossCheck(1.0)
	if len(divergent) != 1 {
		t.Fatalf("expected 1 divergent filing, got %d", len(divergent))
	}
	if divergent[0].Accession != "0001-23-000002" {
		t.Errorf("unexpected divergent accession %s", divergent[0].Accession)
	}
}

func TestLoad_FallsBackToChunks(t *testing.T) {
	dir := t.TempDir()
	chunkDir := filepath.Join(dir, "chunks")
	os.MkdirAll(chunkDir, 0755)

	header := "NAMEOFISSUER\tTITLEOFCLASS\tCUSIP\tVALUE\tSSHPRNAMT\tPUTCALL\tACCESSION_NUMBER\n"
	os.WriteFile(filepath.Join(chunkDir, "INFOTABLE_chunk_001.tsv"),
		[]byte(header+"NVIDIA CORP\tCOM\t67066G104\t2000000\t4000\t\t0001-23-000001\n"), 0644)
	os.WriteFile(filepath.Join(chunkDir, "INFOTABLE_chunk_002.tsv"),
		[]byte(header+"APPLE INC\tCOM\t037833100\t6000000\t32000\t\t0001-23-000002\n"), 0644)

	paths := Paths{
		Holdings: filepath.Join(dir, "INFOTABLE.tsv"), // absent on purpose
		Cover:    filepath.Join(dir, "COVERPAGE.tsv"),
		Summary:  filepath.Join(dir, "SUMMARYPAGE.tsv"),
		ChunkDir: chunkDir,
	}
	os.WriteFile(paths.Cover, []byte(coverTSV), 0644)
	os.WriteFile(paths.Summary, []byte(summaryTSV), 0644)

	snap, err := NewLoader(nil).Load(paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.HoldingCount() != 2 {
		t.Errorf("expected 2 holdings from chunks, got %d", snap.HoldingCount())
	}
}
