package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/coins"
	"github.com/fatih/color"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

func init() { color.NoColor = true }

// staticFeed serves a fixed ticker, and nothing to individual lookups.
type staticFeed []coins.Quote

func (f staticFeed) Ticker(context.Context) ([]coins.Quote, error) { return f, nil }

func (f staticFeed) Lookup(_ context.Context, id string) (coins.Quote, error) {
	return coins.Quote{}, fmt.Errorf("%w: %s", coins.ErrAssetNotFound, id)
}

var ticker = staticFeed{
	coins.NewQuote(1, "Bitcoin", "BTC", 20000.0),
	coins.NewQuote(2, "Ethereum", "ETH", 1500.0),
	coins.NewQuote(6, "Litecoin", "LTC", 50.0),
}

// files points the global flags at temporary config and holdings files.
func files(t *testing.T, config, holdings string) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}
	oldConfig, oldCoins := *configFile, *coinsFile
	t.Cleanup(func() { *configFile, *coinsFile = oldConfig, oldCoins })
	*configFile = filepath.Join(dir, "config.ini")
	if config != "" {
		*configFile = write("config.ini", config)
	}
	*coinsFile = write("coins.ini", holdings)
}

const holdingsFile = `
[bitcoin]
name = bitcoin
held = 1.5

[ethereum]
name = eth
held = 10

[doge]
name = dogecoin
held = 1000
`

func TestCheck(t *testing.T) {
	files(t, "[sorting]\nsort by = price\n", holdingsFile)
	var stdout, stderr bytes.Buffer
	if got := check(&stdout, &stderr); got != subcommands.ExitSuccess {
		t.Fatalf("check() = %v, want success\n%s", got, stderr.String())
	}
	for _, want := range []string{"currency: USD", "sorting: rank ascending", "holdings: 3 assets"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("check() output = %q, want %q", stdout.String(), want)
		}
	}
	if !strings.Contains(stderr.String(), "warning:") {
		t.Errorf("check() stderr = %q, want a sort key warning", stderr.String())
	}
}

func TestCheck_InvalidHoldings(t *testing.T) {
	files(t, "", "[a]\nname = btc\nheld = -2\n")
	var stdout, stderr bytes.Buffer
	if got := check(&stdout, &stderr); got != subcommands.ExitFailure {
		t.Errorf("check() = %v, want failure", got)
	}
	if !strings.Contains(stderr.String(), "negative 'held' quantity") {
		t.Errorf("check() stderr = %q, want the negative quantity", stderr.String())
	}
}

func TestReport(t *testing.T) {
	files(t, "[sorting]\nsort by = held value\nsort direction = descending\n", holdingsFile)
	opts, err := loadOptions(os.Stderr)
	if err != nil {
		t.Fatal(err)
	}
	holdings, err := coins.LoadHoldings(*coinsFile)
	if err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if got := report(context.Background(), ticker, opts, holdings, zap.NewNop(), &stdout, &stderr); got != subcommands.ExitSuccess {
		t.Fatalf("report() = %v, want success\n%s", got, stderr.String())
	}
	if want := `no matches found for coin name/symbol "dogecoin"`; !strings.Contains(stderr.String(), want) {
		t.Errorf("report() stderr = %q, want %q", stderr.String(), want)
	}
	out := stdout.String()
	btc, eth := strings.Index(out, "Bitcoin"), strings.Index(out, "Ethereum")
	if btc < 0 || eth < 0 || btc > eth {
		t.Errorf("report() output does not list Bitcoin before Ethereum:\n%s", out)
	}
	for _, want := range []string{"Totals: ", "45,000.00 USD", "2.25000000 BTC", "66.67%"} {
		if !strings.Contains(out, want) {
			t.Errorf("report() output does not contain %q:\n%s", want, out)
		}
	}
}

func TestQuote(t *testing.T) {
	var stdout, stderr bytes.Buffer
	got := quote(context.Background(), ticker, coins.DefaultOptions(), []string{"ltc", "LTC", "bitcoin"}, zap.NewNop(), &stdout, &stderr)
	if got != subcommands.ExitSuccess {
		t.Fatalf("quote() = %v, want success\n%s", got, stderr.String())
	}
	// bulk matches keep holdings order: litecoin was asked first.
	want := "" +
		"6) Litecoin (LTC): 50.00 USD, 0.00250000 BTC, 0.03333333 ETH\n" +
		"1) Bitcoin (BTC): 20,000.00 USD, 13.33333333 ETH\n"
	if stdout.String() != want {
		t.Errorf("quote() output =\n%s\nwant\n%s", stdout.String(), want)
	}
}

func TestQuote_NotFound(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if got := quote(context.Background(), ticker, coins.DefaultOptions(), []string{"dogecoin"}, zap.NewNop(), &stdout, &stderr); got != subcommands.ExitFailure {
		t.Errorf("quote() = %v, want failure", got)
	}
	if !strings.Contains(stderr.String(), "dogecoin") {
		t.Errorf("quote() stderr = %q, want the unknown id", stderr.String())
	}
}
