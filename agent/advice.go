package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/etnz/points"
	"google.golang.org/genai"
)

// Replies used when the model cannot help.
const (
	FallbackAdvice = "Sorry, I encountered an error analyzing your portfolio."
	NoAdvice       = "I couldn't generate advice at this time."
)

// Advisor answers questions about a portfolio.
type Advisor interface {
	Advice(ctx context.Context, query string, programs []points.Program) (string, error)
}

const advisorInstruction = `You are an expert Points & Miles Advisor.
You have access to the user's current portfolio of loyalty programs and credit cards.

User Portfolio Summary:
%s

Analyze the user's portfolio to answer their questions.
Be specific, referencing their actual balances and benefits.
If suggesting a redemption, estimate value based on standard valuations (e.g. 1.5 cents per point).
Keep answers concise and actionable. Format with Markdown.`

// AdvisorInstruction returns the system instruction describing programs.
func AdvisorInstruction(programs []points.Program) *genai.Content {
	summary := must(json.MarshalIndent(points.Summarize(programs), "", "  "))
	return &genai.Content{Parts: []*genai.Part{{Text: fmt.Sprintf(advisorInstruction, summary)}}}
}

// Advice answers query about programs in markdown. On failure it returns
// FallbackAdvice together with the error, so that the caller always has
// something to show.
func (g *Gemini) Advice(ctx context.Context, query string, programs []points.Program) (string, error) {
	resp, err := g.Models.GenerateContent(ctx, g.Model,
		[]*genai.Content{textContent("user", query)},
		&genai.GenerateContentConfig{SystemInstruction: AdvisorInstruction(programs)})
	if err != nil {
		log.Printf("Gemini advice error: %v", err)
		return FallbackAdvice, fmt.Errorf("advice failed: %w", err)
	}
	answer, err := firstText(resp)
	if err != nil || strings.TrimSpace(answer) == "" {
		return NoAdvice, nil
	}
	return answer, nil
}
