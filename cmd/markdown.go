package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
)

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// printMarkdown prints md to stdout, styled when stdout is a terminal and
// verbatim otherwise so that the output can be piped.
func printMarkdown(md string) {
	if !isTerminal() {
		fmt.Fprintln(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		fmt.Fprintln(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
