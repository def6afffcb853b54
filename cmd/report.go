package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/coins"
	"github.com/etnz/coins/coinmarketcap"
	"github.com/etnz/coins/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type reportCmd struct {
	sortBy    string
	direction string
	currency  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the valuation of the holdings" }
func (*reportCmd) Usage() string {
	return `report [-sort <key>] [-direction <dir>] [-currency <code>]

Fetch the current prices, value every holding of the holdings file and print
the report table. Holdings that cannot be priced are reported on stderr.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sortBy, "sort", "", "Sort by 'rank', 'name' or 'held value', overrides the configuration")
	f.StringVar(&c.direction, "direction", "", "Sort 'ascending' or 'descending', overrides the configuration")
	f.StringVar(&c.currency, "currency", "", "Local currency code, overrides the configuration")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := loadOptions(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.override(&opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	holdings, err := coins.LoadHoldings(*coinsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	logger := newLogger(opts.LogLevel)
	defer logger.Sync()
	feed := coinmarketcap.New(opts.Feed, opts.Currency, logger)
	return report(ctx, feed, opts, holdings, logger, os.Stdout, os.Stderr)
}

// override applies the command line flags on top of the configuration.
func (c *reportCmd) override(opts *coins.Options) (err error) {
	if c.sortBy != "" {
		if opts.SortKey, err = coins.ParseSortKey(c.sortBy); err != nil {
			return err
		}
	}
	if c.direction != "" {
		if opts.SortDirection, err = coins.ParseSortDirection(c.direction); err != nil {
			return err
		}
	}
	if c.currency != "" {
		opts.Currency = strings.ToUpper(c.currency)
	}
	return nil
}

// report values holdings against feed and writes the table to stdout.
func report(ctx context.Context, feed coins.Feed, opts coins.Options, holdings []coins.Holding, logger *zap.Logger, stdout, stderr io.Writer) subcommands.ExitStatus {
	v, diagnostics, err := coins.Resolve(ctx, feed, opts, holdings, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error fetching prices: %v\n", err)
		return subcommands.ExitFailure
	}
	printDiagnostics(stderr, diagnostics)

	v.Sort(opts.SortKey, opts.SortDirection)
	if err := renderer.Render(stdout, v, coins.NewFormatter(opts)); err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
