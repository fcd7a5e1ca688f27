// Package renderer turns a valuation snapshot into the daily reports: a
// styled HTML summary for email/archive and a markdown table for the
// terminal.
package renderer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/fundwatch/fundwatch"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templates embed.FS

// Row is one holding prepared for display. Day-over-day fields are blank
// when the history holds no earlier value for the fund.
type Row struct {
	Fund      string
	URL       string
	Units     string
	SellPrice string
	BuyPrice  string
	Change    string
	ChangePct string
	Currency  string
	Value     string
	DoDChange string
	DoDPct    string
}

// Badge is the headline total with its day-over-day movement.
type Badge struct {
	Class     string // "total up", "total down" or "total flat"
	Total     string
	Indicator string // ▲, ▼ or •; empty without history
	Diff      string // signed day-over-day amount and percent
}

// Summary is the fully prepared report model.
type Summary struct {
	Date     string
	Rows     []Row
	Badge    Badge
	Failures []fundwatch.Failure
}

// Build prepares the report model from the day's snapshot and the previous
// history row (havePrev false when the history has no earlier day).
func Build(snap *fundwatch.Snapshot, prev fundwatch.HistoryRow, havePrev bool) Summary {
	s := Summary{
		Date:     snap.Date.String(),
		Failures: snap.Failures,
		Badge:    Badge{Class: "total flat", Total: "Total: " + snap.Total().String()},
	}

	for _, h := range snap.Holdings {
		row := Row{
			Fund:      h.Fund,
			URL:       h.URL,
			Units:     h.Units.String(),
			SellPrice: h.SellPrice.String(),
			Change:    h.Change,
			ChangePct: h.ChangePct,
			Currency:  h.Currency,
			Value:     h.Value.String(),
		}
		if !h.BuyPrice.IsZero() {
			row.BuyPrice = h.BuyPrice.String()
		}
		if prevVal, ok := prev.Values[h.Fund]; havePrev && ok {
			diff := h.Value.Amount().Sub(prevVal)
			row.DoDChange = fundwatch.M(diff, fundwatch.BaseCurrency).SignedString()
			row.DoDPct = signedPercent(diff, prevVal)
		}
		s.Rows = append(s.Rows, row)
	}

	if havePrev && !prev.Total.IsZero() {
		diff := snap.Total().Amount().Sub(prev.Total)
		switch {
		case diff.IsPositive():
			s.Badge.Class, s.Badge.Indicator = "total up", "▲"
		case diff.IsNegative():
			s.Badge.Class, s.Badge.Indicator = "total down", "▼"
		default:
			s.Badge.Class, s.Badge.Indicator = "total flat", "•"
		}
		s.Badge.Diff = fmt.Sprintf("%s (%s)",
			fundwatch.M(diff, fundwatch.BaseCurrency).SignedString(),
			signedPercent(diff, prev.Total))
	}
	return s
}

// signedPercent formats diff/base as a signed percentage with two decimals.
func signedPercent(diff, base decimal.Decimal) string {
	if base.IsZero() {
		return ""
	}
	pct := diff.Div(base).Mul(decimal.NewFromInt(100))
	sign := ""
	if !pct.IsNegative() {
		sign = "+"
	}
	return sign + pct.StringFixed(2) + "%"
}

// SummaryHTML renders the styled HTML report.
func SummaryHTML(s Summary) (string, error) {
	tmpl, err := template.ParseFS(templates, "templates/summary.html")
	if err != nil {
		return "", fmt.Errorf("cannot parse summary template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, s); err != nil {
		return "", fmt.Errorf("cannot render summary: %w", err)
	}
	return b.String(), nil
}
