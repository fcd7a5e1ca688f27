package fundwatch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/fundwatch/fundwatch/date"
	"github.com/shopspring/decimal"
)

// historyHeader are the fixed leading columns of the history file; one
// column per fund follows them.
var historyHeader = []string{"Date", "Total"}

// HistoryRow is one persisted day: the portfolio total plus the value of
// each holding, keyed by fund display name.
type HistoryRow struct {
	Date   date.Date
	Total  decimal.Decimal
	Values map[string]decimal.Decimal
}

// History is the daily time series of portfolio valuations backing the
// day-over-day figures in the report. Rows are kept sorted by date; the
// fund column set only ever grows so old rows keep their columns.
type History struct {
	funds []string // fund columns in first-seen order
	rows  []HistoryRow
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{} }

// Funds returns the fund column names in persisted order.
func (h *History) Funds() []string { return h.funds }

// Rows returns the rows sorted by date, oldest first.
func (h *History) Rows() []HistoryRow { return h.rows }

// Upsert inserts the row at its date, replacing any existing row for the
// same day. New fund names extend the column set; absent ones are left
// blank on encode, never dropped.
func (h *History) Upsert(row HistoryRow) {
	var added []string
	for fund := range row.Values {
		if !slices.Contains(h.funds, fund) {
			added = append(added, fund)
		}
	}
	slices.Sort(added) // deterministic column order for new funds
	h.funds = append(h.funds, added...)

	for i, r := range h.rows {
		if r.Date == row.Date {
			h.rows[i] = row
			return
		}
	}
	h.rows = append(h.rows, row)
	slices.SortFunc(h.rows, func(a, b HistoryRow) int { return a.Date.Compare(b.Date) })
}

// Previous returns the most recent row strictly before d.
func (h *History) Previous(d date.Date) (HistoryRow, bool) {
	var prev HistoryRow
	found := false
	for _, r := range h.rows {
		if r.Date.Before(d) {
			prev, found = r, true
		}
	}
	return prev, found
}

// DecodeHistory reads the history CSV. An empty stream decodes to an empty
// history. Blank value cells stay absent from the row's map.
func DecodeHistory(r io.Reader) (*History, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read history csv: %w", err)
	}
	h := NewHistory()
	if len(records) == 0 {
		return h, nil
	}

	header := records[0]
	if len(header) < len(historyHeader) || !strings.EqualFold(header[0], "Date") {
		return nil, fmt.Errorf("malformed history header: %v", header)
	}
	h.funds = append(h.funds, header[len(historyHeader):]...)

	for _, rec := range records[1:] {
		if len(rec) == 0 {
			continue
		}
		day, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("malformed history row: %w", err)
		}
		row := HistoryRow{Date: day, Values: make(map[string]decimal.Decimal)}
		if len(rec) > 1 && rec[1] != "" {
			if row.Total, err = decimal.NewFromString(rec[1]); err != nil {
				return nil, fmt.Errorf("malformed total on %s: %w", day, err)
			}
		}
		for i, fund := range h.funds {
			c := i + len(historyHeader)
			if c < len(rec) && rec[c] != "" {
				v, err := decimal.NewFromString(rec[c])
				if err != nil {
					return nil, fmt.Errorf("malformed value for %q on %s: %w", fund, day, err)
				}
				row.Values[fund] = v
			}
		}
		h.rows = append(h.rows, row)
	}
	slices.SortFunc(h.rows, func(a, b HistoryRow) int { return a.Date.Compare(b.Date) })
	return h, nil
}

// Encode writes the history as CSV with the Date,Total,<fund…> layout.
func (h *History) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append(append([]string{}, historyHeader...), h.funds...)); err != nil {
		return err
	}
	for _, r := range h.rows {
		rec := []string{r.Date.String(), r.Total.String()}
		for _, fund := range h.funds {
			if v, ok := r.Values[fund]; ok {
				rec = append(rec, v.String())
			} else {
				rec = append(rec, "")
			}
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// LoadHistory reads the history file; a missing file is an empty history.
func LoadHistory(path string) (*History, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewHistory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open history %q: %w", path, err)
	}
	defer f.Close()
	return DecodeHistory(f)
}

// SaveHistory writes the history file atomically enough for a daily run.
func SaveHistory(path string, h *History) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot write history %q: %w", path, err)
	}
	if err := h.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
