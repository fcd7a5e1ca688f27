package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fundwatch/fundwatch"
	"github.com/fundwatch/fundwatch/renderer"
	"github.com/google/subcommands"
)

// historyCmd displays recent rows of the daily totals file.
type historyCmd struct {
	last int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display recent daily portfolio totals" }
func (*historyCmd) Usage() string {
	return `fw history [-n <rows>]

  Displays the most recent rows of the daily totals history.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.last, "n", 30, "Number of rows to display (0 for all)")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	hist, err := fundwatch.LoadHistory(*historyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(hist.Rows()) == 0 {
		fmt.Println("History is empty, run `fw daily` first.")
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.TotalsMarkdown(hist, c.last))
	return subcommands.ExitSuccess
}
