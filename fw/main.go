// Command fw tracks a personal portfolio's daily value: it scrapes fund and
// share prices, reconciles them against the holdings ledger and produces
// the daily summary.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/fundwatch/fundwatch/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
