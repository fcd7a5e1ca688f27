package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fundwatch/fundwatch/fxrate"
	"github.com/google/subcommands"
)

// fxCmd prints the USD to GBP rate the next run would use.
type fxCmd struct{}

func (*fxCmd) Name() string     { return "fx" }
func (*fxCmd) Synopsis() string { return "display the current USD to GBP conversion rate" }
func (*fxCmd) Usage() string {
	return `fw fx

  Resolves and prints the USD to GBP rate, exercising the same retry and
  fallback path as the daily run.
`
}

func (*fxCmd) SetFlags(*flag.FlagSet) {}

func (*fxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rate, err := fxrate.New().USDToGBP()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("1 USD = %s GBP\n", rate)
	return subcommands.ExitSuccess
}
