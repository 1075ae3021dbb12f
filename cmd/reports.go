package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/points"
	"github.com/etnz/points/renderer"
	"github.com/google/subcommands"
)

type dashboardCmd struct {
	months int
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the overview of all programs" }
func (*dashboardCmd) Usage() string {
	return `pts dashboard [-months <n>]

  Shows the total balance, the programs expiring soon, the number of cards with
  lounge access, the allocation per program type and the first programs.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "months", 0, "Expiration horizon in months, the configured horizon by default.")
}

func (c *dashboardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: no arguments expected")
		return subcommands.ExitUsageError
	}
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderDashboard(renderer.NewDashboard(s.Programs(), today(), horizon(c.months))))
	return subcommands.ExitSuccess
}

// horizon returns months, or the configured horizon if months is not positive.
func horizon(months int) int {
	if months > 0 {
		return months
	}
	return cfg.HorizonMonths
}

type listCmd struct {
	typ string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list programs" }
func (*listCmd) Usage() string {
	return `pts list [-type <type>]

  Lists all programs with their id, balance and expiration date.
  Use -type to show only one type: airline, hotel, credit-card or other.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Only list programs of this type.")
}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var typ points.ProgramType
	if c.typ != "" {
		var err error
		if typ, err = points.ParseProgramType(c.typ); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderPrograms(renderer.NewProgramList(s.Programs(), typ)))
	return subcommands.ExitSuccess
}

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show the detail of a program" }
func (*showCmd) Usage() string {
	return `pts show <program-id>

  Shows a program with all its benefits and notes.
`
}
func (c *showCmd) SetFlags(f *flag.FlagSet) {}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one program id")
		return subcommands.ExitUsageError
	}
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, ok := s.Program(f.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no program %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderProgram(renderer.NewProgramDetail(p, today(), cfg.HorizonMonths)))
	return subcommands.ExitSuccess
}

type expiringCmd struct {
	months int
}

func (*expiringCmd) Name() string     { return "expiring" }
func (*expiringCmd) Synopsis() string { return "list programs and benefits expiring soon" }
func (*expiringCmd) Usage() string {
	return `pts expiring [-months <n>]

  Lists the programs and benefits expiring after today and no later than
  the horizon. Programs without expiration date never expire.
`
}

func (c *expiringCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "months", 0, "Expiration horizon in months, the configured horizon by default.")
}

func (c *expiringCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderExpiring(renderer.NewExpiringReport(s.Programs(), today(), horizon(c.months))))
	return subcommands.ExitSuccess
}
