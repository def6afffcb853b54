// Package cmd implements the CLI application to value a crypto portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/coins"
	"github.com/fatih/color"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "portfolio")
	c.Register(&quoteCmd{}, "portfolio")
	c.Register(&checkCmd{}, "portfolio")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "config.ini", "Path to the configuration file (INI format)")
var coinsFile = flag.String("coins", "coins.ini", "Path to the holdings file (INI format)")
var verbose = flag.Bool("v", false, "Log debug messages on stderr")

// DefaultCommand is executed when no subcommand is given.
const DefaultCommand = "report"

var (
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// loadOptions reads the configuration file and prints its warnings on stderr.
//
// A missing configuration file is not an error: defaults apply.
func loadOptions(stderr io.Writer) (coins.Options, error) {
	path := *configFile
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		path = ""
	}
	opts, warnings, err := coins.LoadOptions(path)
	if err != nil {
		return coins.Options{}, err
	}
	for _, w := range warnings {
		warningColor.Fprintf(stderr, "warning: %v\n", w)
	}
	return opts, nil
}

// newLogger returns a console logger on stderr at level, or debug with -v.
func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.WarnLevel
	}
	if *verbose {
		lvl = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core)
}

// printDiagnostics prints non fatal errors, one per line.
func printDiagnostics(w io.Writer, diagnostics []error) {
	for _, d := range diagnostics {
		errorColor.Fprintf(w, "%v\n", d)
	}
}

// printMarkdown renders md for the terminal, or prints it raw when rendering fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// holdingsFromArgs turns identifiers given on the command line into unit holdings.
func holdingsFromArgs(args []string) []coins.Holding {
	holdings := make([]coins.Holding, 0, len(args))
	seen := make(map[string]bool)
	for _, arg := range args {
		id := strings.ToLower(strings.TrimSpace(arg))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		holdings = append(holdings, coins.Holding{ID: id, Quantity: one})
	}
	return holdings
}
