package fundwatch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingLedgerColumn reports a ledger file lacking one of the required
// columns. It is fatal and raised before any scraping happens.
var ErrMissingLedgerColumn = errors.New(`ledger must contain "fund", "units" and "url" columns`)

// LedgerEntry is one row of the holdings ledger: a fund or share display
// name, the number of units owned, and the URL of its public price page.
// Entries are immutable during a run.
type LedgerEntry struct {
	Fund  string
	Units decimal.NullDecimal // invalid when the cell was blank or malformed
	URL   string
}

// Valid reports whether the entry carries everything reconciliation needs.
func (e LedgerEntry) Valid() bool {
	return e.Fund != "" && e.URL != "" && e.Units.Valid && !e.Units.Decimal.IsNegative()
}

// Key returns the entry's normalized join key.
func (e LedgerEntry) Key() string { return Normalize(e.Fund) }

// DecodeLedger reads the holdings ledger from CSV data with a header row.
// Column lookup is by name, case-insensitive, so extra columns and any
// ordering are fine. Rows with blank or malformed cells are kept with their
// defect (invalid Units, empty Fund/URL); the reconciler drops and reports
// them. A missing required column is ErrMissingLedgerColumn.
func DecodeLedger(r io.Reader) ([]LedgerEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrMissingLedgerColumn
	}

	col := make(map[string]int)
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	fund, okFund := col["fund"]
	units, okUnits := col["units"]
	url, okURL := col["url"]
	if !okFund || !okUnits || !okURL {
		return nil, ErrMissingLedgerColumn
	}

	cell := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	entries := make([]LedgerEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		e := LedgerEntry{Fund: cell(rec, fund), URL: cell(rec, url)}
		if v, err := decimal.NewFromString(cell(rec, units)); err == nil {
			e.Units = decimal.NewNullDecimal(v)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadLedger reads the ledger from a CSV file on disk.
func LoadLedger(path string) ([]LedgerEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", path, err)
	}
	defer f.Close()
	return DecodeLedger(f)
}
