package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/points"
	"github.com/etnz/points/agent"
	"github.com/google/subcommands"
)

type adviseCmd struct {
	interactive bool
}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "ask Gemini for advice about the portfolio" }
func (*adviseCmd) Usage() string {
	return `pts advise [-i] [<question>...]

  Asks a question about the portfolio to the Gemini advisor. The advisor knows
  every program, balance, expiration and benefit.

  With -i, or without a question, starts an interactive session. The question,
  if any, is asked first. Type 'bye' to exit.

Usage Examples:
$ pts advise "What is the best use of my Marriott points?"
$ pts advise -i
`
}

func (c *adviseCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.interactive, "i", false, "Start an interactive session.")
}

func (c *adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.TrimSpace(strings.Join(f.Args(), " "))

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	g, err := newGemini(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing Gemini's client: %v\n", err)
		return subcommands.ExitFailure
	}

	if question != "" && !c.interactive {
		answer, err := g.Advice(ctx, question, s.Programs())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		printMarkdown(answer)
		return subcommands.ExitSuccess
	}

	session := agent.NewSession(stdout, stdin, g.Models, g.Model, func() []points.Program { return s.Programs() }, today)
	session.Print = func(_ io.Writer, md string) { printMarkdown(md) }
	var prompts []string
	if question != "" {
		prompts = append(prompts, question)
	}
	if err := session.Run(ctx, prompts...); err != nil {
		fmt.Fprintf(os.Stderr, "Advisor failed: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
