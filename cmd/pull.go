package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fundwatch/fundwatch"
	"github.com/fundwatch/fundwatch/fxrate"
	"github.com/fundwatch/fundwatch/pricepage"
	"github.com/fundwatch/fundwatch/renderer"
	"github.com/google/subcommands"
)

// pullCmd scrapes and displays the valuation table without touching the
// history file or writing any summary.
type pullCmd struct{}

func (*pullCmd) Name() string     { return "pull" }
func (*pullCmd) Synopsis() string { return "scrape prices and display the valuation table" }
func (*pullCmd) Usage() string {
	return `fw pull

  Scrapes every holding's price page and prints the reconciled valuation
  table. Nothing is persisted.
`
}

func (*pullCmd) SetFlags(*flag.FlagSet) {}

func (*pullCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	printMarkdown(renderer.HoldingsMarkdown(snap))
	return subcommands.ExitSuccess
}
