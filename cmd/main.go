// Package cmd implements the fw subcommands.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register registers every fw subcommand on the commander.
func Register(c *subcommands.Commander) {
	c.Register(&dailyCmd{}, "reports")
	c.Register(&pullCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&fxCmd{}, "rates")
}

var ledgerFile = flag.String("ledger", "units.csv", "Path to the holdings ledger CSV (columns fund, units, url)")
var historyFile = flag.String("history", "daily_totals.csv", "Path to the daily totals history CSV")

// printMarkdown renders a markdown report on the terminal, falling back to
// the raw text when styling fails (e.g. not a tty).
func printMarkdown(markdown string) {
	out, err := glamour.Render(markdown, "dark")
	if err != nil {
		fmt.Println(markdown)
		return
	}
	fmt.Print(out)
}
