package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/points"
	"github.com/google/subcommands"
)

// formatOf returns the format called name, or guessed from the file
// extension, JSON by default.
func formatOf(name, file string) (points.Format, error) {
	if name != "" {
		return points.ParseFormat(name)
	}
	if ext := strings.TrimPrefix(filepath.Ext(file), "."); ext != "" {
		return points.ParseFormat(ext)
	}
	return points.JSON, nil
}

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write all programs as json, yaml or toml" }
func (*exportCmd) Usage() string {
	return `pts export [-format json|yaml|toml] [-o <file>]

  Writes the whole portfolio to stdout, or to a file. The format defaults to
  the file extension, and then to json.

Usage Examples:
$ pts export -o backup.yaml
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Output format: json, yaml or toml.")
	f.StringVar(&c.output, "o", "", "Output file, stdout by default.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) (status subcommands.ExitStatus) {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: no arguments expected")
		return subcommands.ExitUsageError
	}
	format, err := formatOf(c.format, c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer func() {
			if err := file.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing output file: %v\n", err)
				status = subcommands.ExitFailure
			}
		}()
		w = file
	}
	if err := points.Export(w, format, s.Programs()); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting programs: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type importCmd struct {
	format  string
	replace bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "read programs from a json, yaml or toml file" }
func (*importCmd) Usage() string {
	return `pts import [-format json|yaml|toml] [-replace] <file>|-

  Reads programs written by pts export. A program replaces the one with the
  same id, other programs are added. With -replace, the whole portfolio is
  replaced. Nothing is imported if a program is invalid.

Usage Examples:
$ pts import backup.yaml
$ cat backup.json | pts import -replace -
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Input format: json, yaml or toml. Guessed from the file extension by default.")
	f.BoolVar(&c.replace, "replace", false, "Replace the whole portfolio.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one file, or - for stdin")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	format, err := formatOf(c.format, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var r io.Reader = stdin
	if name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}
	programs, err := points.Import(r, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", name, err)
		return subcommands.ExitFailure
	}

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := s.Merge(programs, c.replace); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing programs: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Imported %d programs, total balance %s\n", len(programs), s.TotalBalance())
	return subcommands.ExitSuccess
}
