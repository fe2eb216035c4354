package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/models"
)

// Paths names the three source tables. Holdings may be absent when ChunkDir
// contains a pre-split detail file.
type Paths struct {
	Holdings string
	Cover    string
	Summary  string
	ChunkDir string
}

// Loader parses the 13F source tables into a Snapshot.
type Loader struct {
	logger *common.Logger
}

// NewLoader creates a loader. A nil logger falls back to a silent one.
func NewLoader(logger *common.Logger) *Loader {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Loader{logger: logger}
}

// Load reads, coerces and joins the three tables. Missing files and missing
// required columns are fatal; malformed rows are skipped and counted.
func (l *Loader) Load(paths Paths) (*Snapshot, error) {
	start := time.Now()

	filings, err := l.loadCover(paths.Cover)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Filings:     filings,
		ByAccession: make(map[string][]int, len(filings)),
	}

	snap.Summaries, err = l.loadSummary(paths.Summary, &snap.Warnings)
	if err != nil {
		return nil, err
	}

	if err := l.loadHoldings(paths, snap); err != nil {
		return nil, err
	}

	snap.LoadedAt = time.Now()

	divergent := snap.CrossCheck(1.0)
	l.logger.Info().
		Int("holdings", len(snap.Holdings)).
		Int("filings", len(snap.Filings)).
		Int("warnings", snap.Warnings.Total()).
		Int("divergent_totals", len(divergent)).
		Str("elapsed", time.Since(start).Round(time.Millisecond).String()).
		Msg("dataset loaded")

	return snap, nil
}

// tsvReader opens a TSV file and returns its csv.Reader plus the resolved
// header column indexes for the required and optional columns.
func openTSV(path string, required []string, optional []string) (*os.File, *csv.Reader, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil, &MissingDataFileError{Path: path}
		}
		return nil, nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r := newTSV(f)
	cols, err := resolveHeader(r, path, required, optional)
	if err != nil {
		f.Close()
		return nil, nil, nil, err
	}
	return f, r, cols, nil
}

// newTSV configures a csv.Reader for tab-separated SEC files.
func newTSV(src io.Reader) *csv.Reader {
	r := csv.NewReader(src)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // rows are length-checked per column instead
	r.ReuseRecord = true
	return r
}

// resolveHeader reads the header row and maps column names to indexes.
// A missing required column is a SchemaMismatchError naming it.
func resolveHeader(r *csv.Reader, file string, required []string, optional []string) (map[string]int, error) {
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", file, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, &SchemaMismatchError{File: file, Column: name}
		}
	}
	for _, name := range optional {
		if _, ok := cols[name]; !ok {
			cols[name] = -1
		}
	}
	return cols, nil
}

// cell returns the trimmed cell at column idx, or "" when the row is short
// or the column is optional-and-absent.
func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// loadCover parses the cover-page table into a filing map keyed by accession.
func (l *Loader) loadCover(path string) (map[string]models.Filing, error) {
	f, r, cols, err := openTSV(path,
		[]string{"ACCESSION_NUMBER", "FILINGMANAGER_NAME", "REPORTCALENDARORQUARTER"}, nil)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	filings := make(map[string]models.Filing)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		accession := cell(record, cols["ACCESSION_NUMBER"])
		if accession == "" {
			continue
		}
		filings[accession] = models.Filing{
			Accession:    accession,
			ManagerName:  cell(record, cols["FILINGMANAGER_NAME"]),
			ReportPeriod: cell(record, cols["REPORTCALENDARORQUARTER"]),
		}
	}
	return filings, nil
}

// loadSummary parses the summary-page table keyed by accession. Totals
// that fail numeric coercion load as zero and count against warn.
func (l *Loader) loadSummary(path string, warn *Warnings) (map[string]models.FilingSummary, error) {
	f, r, cols, err := openTSV(path,
		[]string{"ACCESSION_NUMBER", "TABLEVALUETOTAL", "TABLEENTRYTOTAL"}, nil)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summaries := make(map[string]models.FilingSummary)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		accession := cell(record, cols["ACCESSION_NUMBER"])
		if accession == "" {
			continue
		}

		total, err := decimal.NewFromString(cell(record, cols["TABLEVALUETOTAL"]))
		if err != nil {
			warn.BadTotals++
			total = decimal.Zero
		}
		entries := int64(0)
		if n, err := decimal.NewFromString(cell(record, cols["TABLEENTRYTOTAL"])); err == nil {
			entries = n.IntPart()
		} else {
			warn.BadEntryCounts++
		}

		summaries[accession] = models.FilingSummary{
			Accession:       accession,
			TableValueTotal: total,
			TableEntryTotal: entries,
		}
	}
	return summaries, nil
}

// loadHoldings parses the detail table (direct file or chunk directory),
// joins each row to its filing and appends it to the snapshot.
func (l *Loader) loadHoldings(paths Paths, snap *Snapshot) error {
	src, closer, err := l.openHoldings(paths)
	if err != nil {
		return err
	}
	defer closer.Close()

	r := newTSV(src)
	cols, err := resolveHeader(r, paths.Holdings,
		[]string{"NAMEOFISSUER", "VALUE", "SSHPRNAMT", "CUSIP", "ACCESSION_NUMBER"},
		[]string{"PUTCALL", "TITLEOFCLASS"})
	if err != nil {
		return err
	}

	headerLen := 0
	for _, idx := range cols {
		if idx+1 > headerLen {
			headerLen = idx + 1
		}
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", paths.Holdings, err)
		}

		if len(record) < headerLen {
			snap.Warnings.ShortRows++
			continue
		}

		accession := cell(record, cols["ACCESSION_NUMBER"])
		filing, ok := snap.Filings[accession]
		if !ok {
			snap.Warnings.UnresolvedJoins++
			continue
		}

		value, err := decimal.NewFromString(cell(record, cols["VALUE"]))
		if err != nil {
			snap.Warnings.BadValues++
			value = decimal.Zero
		}
		shares, err := decimal.NewFromString(cell(record, cols["SSHPRNAMT"]))
		if err != nil {
			snap.Warnings.BadShares++
			shares = decimal.Zero
		}

		name := cell(record, cols["NAMEOFISSUER"])
		if name == "" {
			snap.Warnings.MissingNames++
		}

		id := len(snap.Holdings)
		snap.Holdings = append(snap.Holdings, models.Holding{
			Accession:    accession,
			IssuerName:   name,
			ClassTitle:   cell(record, cols["TITLEOFCLASS"]),
			CUSIP:        strings.ToUpper(cell(record, cols["CUSIP"])),
			Value:        value,
			Shares:       shares,
			Option:       models.ParseOptionType(cell(record, cols["PUTCALL"])),
			ManagerName:  filing.ManagerName,
			ReportPeriod: filing.ReportPeriod,
		})
		snap.ByAccession[accession] = append(snap.ByAccession[accession], id)
	}

	return nil
}

// openHoldings returns a reader over the detail table: the combined file
// when present, otherwise the reassembled chunk stream.
func (l *Loader) openHoldings(paths Paths) (io.Reader, io.Closer, error) {
	f, err := os.Open(paths.Holdings)
	if err == nil {
		return f, f, nil
	}
	if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to open %s: %w", paths.Holdings, err)
	}

	if paths.ChunkDir != "" {
		if _, statErr := os.Stat(paths.ChunkDir); statErr == nil {
			l.logger.Info().Str("dir", paths.ChunkDir).Msg("detail file absent, loading from chunks")
			rc, chunkErr := OpenChunks(paths.ChunkDir)
			if chunkErr != nil {
				return nil, nil, chunkErr
			}
			return rc, rc, nil
		}
	}

	return nil, nil, &MissingDataFileError{Path: paths.Holdings}
}
