// Command coins prints the valuation of a crypto portfolio.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/coins/cmd"
	"github.com/etnz/coins/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	completion(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	if flag.NArg() == 0 {
		_ = flag.CommandLine.Parse(append(os.Args[1:], cmd.DefaultCommand))
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// completion handles shell completion requests, and exits when it did.
func completion(name string) {
	topics, _ := docs.GetAllTopics()
	sort := predict.Set{"rank", "name", "held value"}
	direction := predict.Set{"ascending", "descending"}
	global := map[string]complete.Predictor{
		"config": predict.Files("*.ini"),
		"coins":  predict.Files("*.ini"),
		"v":      predict.Nothing,
	}
	c := &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"sort":      sort,
				"direction": direction,
				"currency":  predict.Something,
			}},
			"quote": {
				Flags: map[string]complete.Predictor{"currency": predict.Something},
				Args:  predict.Something,
			},
			"check": {},
			"topic": {
				Flags: map[string]complete.Predictor{"list": predict.Nothing},
				Args:  predict.Set(topics),
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
	c.Complete(name)
}
