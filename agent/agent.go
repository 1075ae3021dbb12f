// Package agent connects the portfolio to Gemini: extraction of programs from
// free text, one-shot advice, and an interactive advisor session.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/etnz/points/date"
	"google.golang.org/genai"
)

// Session is an interactive conversation with the advisor.
type Session struct {
	w        io.Writer
	r        *bufio.Reader
	Advisor  *Expert
	snapshot Snapshot
	// Print writes an answer, in markdown. It defaults to plain text.
	Print func(w io.Writer, markdown string)
}

// NewSession creates a session reading user input from r and writing to w.
//
// The advisor sees the portfolio returned by snapshot, read again before
// every question, and can call the PortfolioTools.
func NewSession(w io.Writer, r io.Reader, models Generator, model string, snapshot Snapshot, today func() date.Date) *Session {
	tools := PortfolioTools(snapshot, today)
	advisor := NewExpert("Advisor", models, model)
	advisor.Config.Tools = []*genai.Tool{{FunctionDeclarations: NewDeclaration(tools)}}
	advisor.Library = NewLibrary(tools)
	return &Session{
		w:        w,
		r:        bufio.NewReader(r),
		Advisor:  advisor,
		snapshot: snapshot,
		Print: func(w io.Writer, markdown string) {
			fmt.Fprintln(w, markdown)
		},
	}
}

const prompt = "advisor> "

// Run starts the REPL. prompts are asked first, as if typed by the user.
// It returns when the user types "bye" or at the end of the input.
func (s *Session) Run(ctx context.Context, prompts ...string) error {
	fmt.Fprintln(s.w, "Welcome to the pts points advisor. Type 'bye' to exit.")

	for {
		fmt.Fprint(s.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(s.w, input)
		} else {
			var err error
			input, err = s.r.ReadString('\n')
			if err != nil && (err != io.EOF || strings.TrimSpace(input) == "") {
				if err == io.EOF {
					fmt.Fprintln(s.w)
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
			input = strings.TrimSpace(input)
		}

		if input == "bye" {
			return nil
		}
		if input == "" {
			continue
		}

		s.Advisor.Config.SystemInstruction = AdvisorInstruction(s.snapshot())
		content, err := s.Advisor.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("advisor failed: %v", err)
			s.Print(s.w, FallbackAdvice)
			continue
		}
		answer := content.Parts[0].Text
		if strings.TrimSpace(answer) == "" {
			answer = NoAdvice
		}
		s.Print(s.w, answer)
	}
}
