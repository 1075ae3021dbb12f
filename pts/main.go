// Command pts tracks loyalty programs, points balances and card benefits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/points"
	"github.com/etnz/points/cmd"
	"github.com/etnz/points/docs"
	"github.com/etnz/points/storage"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// Shell completion, enabled with COMP_INSTALL=1 pts.
	completion(commander).Complete("pts")

	flag.Parse()
	if err := cmd.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	status := commander.Execute(context.Background())
	if err := cmd.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing storage: %v\n", err)
		status = subcommands.ExitFailure
	}
	os.Exit(int(status))
}

// registered reports whether name is a subcommand of c.
func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		if sc.Name() == name {
			found = true
		}
	})
	return found
}

// completion describes the command line of pts for shell completion.
func completion(c *subcommands.Commander) *complete.Command {
	programTypes := predict.Set{}
	for _, t := range points.ProgramTypes {
		programTypes = append(programTypes, string(t))
	}
	benefitTypes := predict.Set{}
	for _, t := range points.BenefitTypes {
		benefitTypes = append(benefitTypes, string(t))
	}
	stores := predict.Set{}
	for _, k := range storage.Kinds {
		stores = append(stores, string(k))
	}
	topics, _ := docs.GetAllTopics()
	formats := predict.Set{string(points.JSON), string(points.YAML), string(points.TOML)}

	// flags with known values, by name.
	flags := map[string]complete.Predictor{
		"type":     programTypes,
		"format":   formats,
		"o":        predict.Files("*"),
		"log-file": predict.Files("*.log"),
	}
	sub := map[string]*complete.Command{}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		cmdFlags := map[string]complete.Predictor{}
		fs.VisitAll(func(f *flag.Flag) {
			if p, ok := flags[f.Name]; ok {
				cmdFlags[f.Name] = p
				return
			}
			cmdFlags[f.Name] = predict.Something
		})
		command := &complete.Command{Flags: cmdFlags}
		switch sc.Name() {
		case "add-benefit":
			cmdFlags["type"] = benefitTypes
		case "import":
			command.Args = predict.Files("*")
		case "topic":
			command.Args = predict.Set(topics)
		}
		sub[sc.Name()] = command
	})

	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"config":   predict.Files("*"),
			"data-dir": predict.Dirs("*"),
			"store":    stores,
			"v":        predict.Nothing,
		},
	}
}
