package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fundwatch/fundwatch"
	"github.com/fundwatch/fundwatch/fxrate"
	"github.com/fundwatch/fundwatch/mail"
	"github.com/fundwatch/fundwatch/pricepage"
	"github.com/fundwatch/fundwatch/renderer"
	"github.com/google/subcommands"
)

// dailyCmd runs the full pipeline: scrape, reconcile, persist the history
// row and write the HTML summary.
type dailyCmd struct {
	outputDir string
	email     bool
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "scrape prices and produce the daily valuation summary" }
func (*dailyCmd) Usage() string {
	return `fw daily [-o <dir>] [-email]

  Scrapes every holding's price page, reconciles prices against the ledger,
  appends today's row to the history file, and writes the styled HTML
  summary (plus a rolling latest.html). With -email the summary is also
  delivered over SMTP using settings from the environment.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "summaries", "Directory for the generated HTML summaries")
	f.BoolVar(&c.email, "email", false, "Email the summary using SMTP settings from the environment")
}

func (c *dailyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	entries, err := fundwatch.LoadLedger(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rec := &fundwatch.Reconciler{Fetch: pricepage.Fetcher(), Rates: fxrate.New()}
	snap, err := rec.Reconcile(entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	hist, err := fundwatch.LoadHistory(*historyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	prev, havePrev := hist.Previous(snap.Date)
	hist.Upsert(snap.HistoryRow())
	if err := fundwatch.SaveHistory(*historyFile, hist); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	page, err := renderer.SummaryHTML(renderer.Build(snap, prev, havePrev))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.writeSummaries(snap, page); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HoldingsMarkdown(snap))

	if c.email {
		cfg, err := mail.FromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		subject := "Daily Portfolio Summary " + snap.Date.String()
		if err := mail.Send(cfg, subject, page); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// writeSummaries stores the dated summary plus a rolling latest.html.
func (c *dailyCmd) writeSummaries(snap *fundwatch.Snapshot, page string) error {
	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	dated := filepath.Join(c.outputDir, fmt.Sprintf("daily_summary-%s.html", snap.Date))
	if err := os.WriteFile(dated, []byte(page), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.outputDir, "latest.html"), []byte(page), 0644)
}
