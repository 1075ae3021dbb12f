package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/points"
	"github.com/etnz/points/agent"
	"github.com/etnz/points/renderer"
	"github.com/google/subcommands"
)

type pasteCmd struct {
	dryRun bool
}

func (*pasteCmd) Name() string     { return "paste" }
func (*pasteCmd) Synopsis() string { return "add a program described in free text, using Gemini" }
func (*pasteCmd) Usage() string {
	return `pts paste [-dry-run] [<text>...]

  Reads a description of a program, like a statement or an email, from the
  arguments or from stdin, asks Gemini to extract the program and adds it.
  Missing fields get defaults, see "pts topic paste".

Usage Examples:
$ pts paste "My Delta SkyMiles balance is 45,000 miles, they never expire"
$ pbpaste | pts paste -dry-run
`
}

func (c *pasteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "Show the extracted program without adding it.")
}

func (c *pasteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text := strings.Join(f.Args(), " ")
	if text == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			return subcommands.ExitFailure
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to paste")
		return subcommands.ExitUsageError
	}

	g, err := newGemini(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing Gemini's client: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(os.Stderr, "Analyzing...")
	draft, err := g.ParseFreeText(ctx, text)
	if err != nil {
		if errors.Is(err, agent.ErrCouldNotParse) {
			fmt.Fprintln(os.Stderr, "Could not parse text. Please try again or enter manually with pts add.")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := draft.Program(points.NewID(), now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: the extracted program is invalid:\n%v\n", err)
		return subcommands.ExitFailure
	}

	if c.dryRun {
		printMarkdown(renderer.RenderProgram(renderer.NewProgramDetail(p, today(), horizon(0))))
		return subcommands.ExitSuccess
	}
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := s.AddProgram(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding program: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added %s with id %s: %s %s\n", p.Title(), p.ID, p.Balance, p.CurrencyName)
	return subcommands.ExitSuccess
}
