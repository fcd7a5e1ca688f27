package fundwatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecodeLedger(t *testing.T) {
	csv := `fund,units,url
Global Technology Fund,104.5,https://example.com/gtf
Acme Ordinary Shares,20,https://example.com/acme
`
	entries, err := DecodeLedger(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	e := entries[0]
	if e.Fund != "Global Technology Fund" {
		t.Errorf("Fund = %q, want %q", e.Fund, "Global Technology Fund")
	}
	if !e.Units.Valid || !e.Units.Decimal.Equal(decimal.RequireFromString("104.5")) {
		t.Errorf("Units = %v, want 104.5", e.Units)
	}
	if e.URL != "https://example.com/gtf" {
		t.Errorf("URL = %q, want %q", e.URL, "https://example.com/gtf")
	}
	if !e.Valid() {
		t.Error("entry should be valid")
	}
}

func TestDecodeLedgerHeaderLookup(t *testing.T) {
	// Columns may appear in any order and case, with extras in between.
	csv := `URL,Notes,UNITS,Fund
https://example.com/a,isa,10,Fund A
`
	entries, err := DecodeLedger(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if len(entries) != 1 || entries[0].Fund != "Fund A" || entries[0].URL != "https://example.com/a" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestDecodeLedgerMissingColumn(t *testing.T) {
	cases := []string{
		"fund,units\nFund A,10\n",
		"fund,url\nFund A,https://example.com/a\n",
		"units,url\n10,https://example.com/a\n",
		"",
	}
	for _, csv := range cases {
		if _, err := DecodeLedger(strings.NewReader(csv)); !errors.Is(err, ErrMissingLedgerColumn) {
			t.Errorf("DecodeLedger(%q) error = %v, want ErrMissingLedgerColumn", csv, err)
		}
	}
}

func TestDecodeLedgerKeepsDefectiveRows(t *testing.T) {
	csv := `fund,units,url
Fund A,not-a-number,https://example.com/a
,10,https://example.com/b
Fund C,10,
`
	entries, err := DecodeLedger(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Valid() {
			t.Errorf("entry %d should be invalid: %+v", i, e)
		}
	}
	if entries[0].Units.Valid {
		t.Error("malformed units cell should decode as invalid NullDecimal")
	}
}

func TestLedgerEntryValid(t *testing.T) {
	units := decimal.NewNullDecimal(decimal.RequireFromString("10"))
	negative := decimal.NewNullDecimal(decimal.RequireFromString("-1"))
	cases := []struct {
		e    LedgerEntry
		want bool
	}{
		{LedgerEntry{Fund: "A", Units: units, URL: "https://x"}, true},
		{LedgerEntry{Fund: "", Units: units, URL: "https://x"}, false},
		{LedgerEntry{Fund: "A", Units: units, URL: ""}, false},
		{LedgerEntry{Fund: "A", URL: "https://x"}, false},
		{LedgerEntry{Fund: "A", Units: negative, URL: "https://x"}, false},
	}
	for _, c := range cases {
		if got := c.e.Valid(); got != c.want {
			t.Errorf("Valid(%+v) = %v, want %v", c.e, got, c.want)
		}
	}
}

func TestLedgerEntryKey(t *testing.T) {
	e := LedgerEntry{Fund: "  Income & Growth  Fund "}
	if got, want := e.Key(), "income and growth fund"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}
