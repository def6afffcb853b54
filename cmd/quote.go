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
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var one = decimal.NewFromInt(1)

type quoteCmd struct {
	currency string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "print the unit price of assets" }
func (*quoteCmd) Usage() string {
	return `quote [-currency <code>] <name or symbol>...

Print the unit price of each asset in the local currency and in the
comparison anchors, without reading the holdings file.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Local currency code, overrides the configuration")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: quote requires at least one asset name or symbol")
		return subcommands.ExitUsageError
	}
	opts, err := loadOptions(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.currency != "" {
		opts.Currency = strings.ToUpper(c.currency)
	}

	logger := newLogger(opts.LogLevel)
	defer logger.Sync()
	feed := coinmarketcap.New(opts.Feed, opts.Currency, logger)
	return quote(ctx, feed, opts, f.Args(), logger, os.Stdout, os.Stderr)
}

// quote prints one line per asset: rank, name, symbol and every unit price.
func quote(ctx context.Context, feed coins.Feed, opts coins.Options, ids []string, logger *zap.Logger, stdout, stderr io.Writer) subcommands.ExitStatus {
	holdings := holdingsFromArgs(ids)
	v, diagnostics, err := coins.Resolve(ctx, feed, opts, holdings, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error fetching prices: %v\n", err)
		return subcommands.ExitFailure
	}
	printDiagnostics(stderr, diagnostics)

	f := coins.NewFormatter(opts)
	for _, a := range v.Assets {
		prices := []string{f.Fiat(a.LocalPrice)}
		for i, in := range a.PriceIn {
			if in.Defined {
				prices = append(prices, f.Crypto(in.Value, v.Anchors[i].Symbol()))
			}
		}
		fmt.Fprintf(stdout, "%d) %s (%s): %s\n", a.Quote.Rank, a.Quote.Name, a.Quote.Symbol, strings.Join(prices, ", "))
	}
	if len(v.Assets) < len(holdings) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
