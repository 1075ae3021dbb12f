package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/points"
	"github.com/etnz/points/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// parseDate parses a command line date, relative to today.
func parseDate(s string) (date.Date, error) {
	return date.ParseRelative(s, today())
}

type addCmd struct {
	id       string
	provider string
	name     string
	typ      string
	balance  uint64
	currency string
	expires  string
	notes    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a program manually" }
func (*addCmd) Usage() string {
	return `pts add -provider <provider> -name <name> [-type <type>] [-balance <n>] [-currency <name>] [-expires <date>]

  Adds a loyalty program. Benefits are added with pts add-benefit.
  See "pts topic dates" for the accepted date formats.

Usage Examples:
$ pts add -provider "Air France" -name "Flying Blue" -type airline -balance 10000 -currency Miles -expires +18m
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Program id, a new one is generated by default.")
	f.StringVar(&c.provider, "provider", "", "Company providing the points (required).")
	f.StringVar(&c.name, "name", "", "Name of the program (required).")
	f.StringVar(&c.typ, "type", string(points.Other), "Program type: airline, hotel, credit-card or other.")
	f.Uint64Var(&c.balance, "balance", 0, "Current balance.")
	f.StringVar(&c.currency, "currency", points.DefaultCurrencyName, "Name of the points, like Miles.")
	f.StringVar(&c.expires, "expires", "", "Expiration date of the points.")
	f.StringVar(&c.notes, "notes", "", "Free notes.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: no arguments expected")
		return subcommands.ExitUsageError
	}
	if strings.TrimSpace(c.provider) == "" || strings.TrimSpace(c.name) == "" {
		fmt.Fprintln(os.Stderr, "Error: -provider and -name are required")
		return subcommands.ExitUsageError
	}
	typ, err := points.ParseProgramType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	expires, err := parseDate(c.expires)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -expires: %v\n", err)
		return subcommands.ExitUsageError
	}
	id := c.id
	if id == "" {
		id = points.NewID()
	}

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, exists := s.Program(id); exists {
		fmt.Fprintf(os.Stderr, "Error: program %q already exists\n", id)
		return subcommands.ExitFailure
	}
	p := points.Program{
		ID:             id,
		Name:           strings.TrimSpace(c.name),
		Provider:       strings.TrimSpace(c.provider),
		Type:           typ,
		Balance:        points.Points(c.balance),
		CurrencyName:   c.currency,
		ExpirationDate: expires,
		Notes:          c.notes,
	}
	if _, err := s.AddProgram(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding program: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added %s with id %s\n", p.Title(), id)
	return subcommands.ExitSuccess
}

type updateCmd struct {
	name     string
	provider string
	typ      string
	balance  uint64
	currency string
	expires  string
	notes    string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change some fields of a program" }
func (*updateCmd) Usage() string {
	return `pts update [-balance <n>] [-expires <date>] [...] <program-id>

  Changes only the fields given on the command line. Use -expires never to
  remove the expiration date.

Usage Examples:
$ pts update -balance 46000 2
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name.")
	f.StringVar(&c.provider, "provider", "", "New provider.")
	f.StringVar(&c.typ, "type", "", "New type: airline, hotel, credit-card or other.")
	f.Uint64Var(&c.balance, "balance", 0, "New balance.")
	f.StringVar(&c.currency, "currency", "", "New currency name.")
	f.StringVar(&c.expires, "expires", "", "New expiration date, or never.")
	f.StringVar(&c.notes, "notes", "", "New notes.")
}

// update returns the changes for the flags set on the command line.
func (c *updateCmd) update(f *flag.FlagSet) (points.ProgramUpdate, error) {
	var u points.ProgramUpdate
	var err error
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "name":
			u.Name = &c.name
		case "provider":
			u.Provider = &c.provider
		case "type":
			var t points.ProgramType
			if t, err = points.ParseProgramType(c.typ); err == nil {
				u.Type = &t
			}
		case "balance":
			b := points.Points(c.balance)
			u.Balance = &b
		case "currency":
			u.CurrencyName = &c.currency
		case "expires":
			var d date.Date
			if d, err = parseDate(c.expires); err == nil {
				u.ExpirationDate = &d
			}
		case "notes":
			u.Notes = &c.notes
		}
	})
	return u, err
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one program id")
		return subcommands.ExitUsageError
	}
	u, err := c.update(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if u.IsEmpty() {
		fmt.Fprintln(os.Stderr, "Error: nothing to update")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, ok := s.Program(id); !ok {
		fmt.Fprintf(os.Stderr, "Error: no program %q\n", id)
		return subcommands.ExitFailure
	}
	if _, err := s.UpdateProgram(id, u); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating program: %v\n", err)
		return subcommands.ExitFailure
	}
	p, _ := s.Program(id)
	fmt.Fprintf(stdout, "Updated %s\n", p.Title())
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a program" }
func (*deleteCmd) Usage() string {
	return `pts delete <program-id>

  Deletes a program and all its benefits.
`
}
func (c *deleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one program id")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, ok := s.Program(id)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no program %q\n", id)
		return subcommands.ExitFailure
	}
	if _, err := s.DeleteProgram(id); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting program: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Deleted %s\n", p.Title())
	return subcommands.ExitSuccess
}

type addBenefitCmd struct {
	id          string
	title       string
	description string
	typ         string
	count       int
	expires     string
	value       string
}

func (*addBenefitCmd) Name() string     { return "add-benefit" }
func (*addBenefitCmd) Synopsis() string { return "add a benefit to a program" }
func (*addBenefitCmd) Usage() string {
	return `pts add-benefit -title <title> [-type <type>] [-count <n>] [-expires <date>] [-value <usd>] <program-id>

  Adds a benefit, like a free night certificate or a travel credit, to a program.
  The value is an estimate in USD, it is never added to the balance.

Usage Examples:
$ pts add-benefit -title "Free Night Award" -type free-night -expires 2027-06-30 -value 250 3
`
}

func (c *addBenefitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Benefit id, a new one is generated by default.")
	f.StringVar(&c.title, "title", "", "Title of the benefit (required).")
	f.StringVar(&c.description, "description", "", "Description of the benefit.")
	f.StringVar(&c.typ, "type", string(points.Generic), "Benefit type, like free-night, travel-credit or lounge-access.")
	f.IntVar(&c.count, "count", 1, "Number of identical benefits.")
	f.StringVar(&c.expires, "expires", "", "Expiration date of the benefit.")
	f.StringVar(&c.value, "value", "", "Estimated value in USD.")
}

func (c *addBenefitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one program id")
		return subcommands.ExitUsageError
	}
	if strings.TrimSpace(c.title) == "" {
		fmt.Fprintln(os.Stderr, "Error: -title is required")
		return subcommands.ExitUsageError
	}
	if c.count < 1 {
		fmt.Fprintln(os.Stderr, "Error: -count must be positive")
		return subcommands.ExitUsageError
	}
	typ, err := points.ParseBenefitType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	expires, err := parseDate(c.expires)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -expires: %v\n", err)
		return subcommands.ExitUsageError
	}
	b := points.Benefit{
		ID:             c.id,
		Title:          strings.TrimSpace(c.title),
		Description:    c.description,
		Type:           typ,
		Count:          c.count,
		ExpirationDate: expires,
	}
	if c.value != "" {
		v, err := decimal.NewFromString(strings.TrimPrefix(c.value, "$"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -value: %v\n", err)
			return subcommands.ExitUsageError
		}
		value := points.USD(v)
		b.Value = &value
	}

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := s.AddBenefit(f.Arg(0), b); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding benefit: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added %s to program %s\n", b.Title, f.Arg(0))
	return subcommands.ExitSuccess
}

type removeBenefitCmd struct{}

func (*removeBenefitCmd) Name() string     { return "remove-benefit" }
func (*removeBenefitCmd) Synopsis() string { return "remove a benefit from a program" }
func (*removeBenefitCmd) Usage() string {
	return `pts remove-benefit <program-id> <benefit-id>

  Removes a benefit, the benefit ids are shown by pts show.
`
}
func (c *removeBenefitCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeBenefitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a program id and a benefit id")
		return subcommands.ExitUsageError
	}
	programID, benefitID := f.Arg(0), f.Arg(1)
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, ok := s.Program(programID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no program %q\n", programID)
		return subcommands.ExitFailure
	}
	if _, ok := p.Benefit(benefitID); !ok {
		fmt.Fprintf(os.Stderr, "Error: program %q has no benefit %q\n", programID, benefitID)
		return subcommands.ExitFailure
	}
	if _, err := s.RemoveBenefit(programID, benefitID); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing benefit: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Removed benefit %s from program %s\n", benefitID, programID)
	return subcommands.ExitSuccess
}
