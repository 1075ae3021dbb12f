package agent

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// maxCalls bounds the number of function calls answered for a single question.
const maxCalls = 8

// Expert is a conversation with a model. It keeps the history of the
// conversation and answers the function calls the model makes with its Library.
type Expert struct {
	Name      string
	ModelName string
	Config    *genai.GenerateContentConfig
	Library   Library
	models    Generator
	history   []*genai.Content
}

// NewExpert creates an expert on models, with an empty history.
func NewExpert(name string, models Generator, model string) *Expert {
	if model == "" {
		model = DefaultModel
	}
	return &Expert{
		Name:      name,
		ModelName: model,
		Config:    &genai.GenerateContentConfig{},
		models:    models,
	}
}

// History returns the conversation so far.
func (e *Expert) History() []*genai.Content { return e.history }

// Ask sends parts as a user turn and returns the model answer.
//
// If the model asks for a function call, the Library is called and its
// response sent back, until the model answers with content.
// A failed turn is removed from the history.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	n := len(e.history)
	content, err := e.ask(ctx, &genai.Content{Role: "user", Parts: parts}, 0)
	if err != nil {
		e.history = e.history[:n]
		return nil, err
	}
	return content, nil
}

func (e *Expert) ask(ctx context.Context, turn *genai.Content, calls int) (*genai.Content, error) {
	e.history = append(e.history, turn)
	resp, err := e.models.GenerateContent(ctx, e.ModelName, e.history, e.Config)
	if err != nil {
		return nil, err
	}
	content, err := firstContent(resp)
	if err != nil {
		return nil, fmt.Errorf("no response from expert %s: %w", e.Name, err)
	}
	if content.Role == "" {
		content.Role = "model"
	}
	e.history = append(e.history, content)

	part0 := content.Parts[0]
	if part0.FunctionCall == nil {
		return content, nil
	}
	if e.Library == nil {
		return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
	}
	if calls >= maxCalls {
		return nil, fmt.Errorf("expert %s made too many function calls", e.Name)
	}

	// Make the callback, errors are sent back in the response.
	fresp := e.Library(ctx, part0.FunctionCall)
	if err := CallError(fresp); err != nil {
		log.Printf("expert %s: %v", e.Name, err)
	}

	// Ask again with the response it asked for, until we have a real response.
	return e.ask(ctx, &genai.Content{Role: "user", Parts: []*genai.Part{{FunctionResponse: fresp}}}, calls+1)
}
