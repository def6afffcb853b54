package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/coins"
	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the configuration and holdings files" }
func (*checkCmd) Usage() string {
	return `check

Load the configuration and the holdings files, print every warning and
error, without contacting the price feed.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return check(os.Stdout, os.Stderr)
}

func check(stdout, stderr io.Writer) subcommands.ExitStatus {
	opts, err := loadOptions(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "currency: %s\n", opts.Currency)
	fmt.Fprintf(stdout, "decimal places: fiat %d, crypto %d, percent %d\n", opts.Decimals.Fiat, opts.Decimals.Crypto, opts.Decimals.Percent)
	fmt.Fprintf(stdout, "sorting: %s %s\n", opts.SortKey, opts.SortDirection)
	fmt.Fprintf(stdout, "feed: %s\n", opts.Feed.URL)

	holdings, err := coins.LoadHoldings(*coinsFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "holdings: %d assets\n", len(holdings))
	return subcommands.ExitSuccess
}
