package renderer

import (
	"bytes"

	"github.com/fundwatch/fundwatch"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders the snapshot's valuation table as a markdown
// document for terminal display.
func HoldingsMarkdown(s *fundwatch.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Daily Portfolio Summary")
	doc.PlainText(s.Date.String())

	table := md.TableSet{
		Header: []string{
			"Fund/Share",
			"Units",
			"Sell Price",
			"Change",
			"%",
			"Currency",
			"Total Holding Value",
		},
	}
	for _, h := range s.Holdings {
		table.Rows = append(table.Rows, []string{
			h.Fund,
			h.Units.String(),
			h.SellPrice.String(),
			h.Change,
			h.ChangePct,
			h.Currency,
			h.Value.String(),
		})
	}
	doc.Table(table)

	doc.H2("Total")
	doc.PlainText(md.Bold(s.Total().String()))

	if len(s.Failures) > 0 {
		doc.H2("Excluded Holdings")
		var items []string
		for _, f := range s.Failures {
			items = append(items, f.Fund+": "+f.Reason)
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

// TotalsMarkdown renders recent history rows as a markdown table, newest
// last.
func TotalsMarkdown(h *fundwatch.History, last int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio History")

	rows := h.Rows()
	if last > 0 && len(rows) > last {
		rows = rows[len(rows)-last:]
	}
	table := md.TableSet{Header: []string{"Date", "Total"}}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			fundwatch.M(r.Total, fundwatch.BaseCurrency).String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
