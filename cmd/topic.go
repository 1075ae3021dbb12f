package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/etnz/points/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `pts topic [-l] [<topic>...]

  Shows the documentation of the given topics, "*" for all of them.
  Without topic, shows the index of the topics.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "Only list the topic names, one per line.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.Topics()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading the index: %v\n", err)
			return subcommands.ExitFailure
		}
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		for _, t := range topics {
			fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Synopsis)
		}
		w.Flush()
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
