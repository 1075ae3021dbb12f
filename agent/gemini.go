package agent

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator generates content from a model. *genai.Models implements it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements Extractor and Advisor on top of a Generator.
type Gemini struct {
	Models Generator
	Model  string
}

// NewGemini creates a Gemini client for the Gemini API. An empty model means
// DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key, set GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %w", err)
	}
	return NewWithGenerator(client.Models, model), nil
}

// NewWithGenerator creates a Gemini using an arbitrary Generator.
func NewWithGenerator(models Generator, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{Models: models, Model: model}
}

// firstText returns the text of the first part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	content, err := firstContent(resp)
	if err != nil {
		return "", err
	}
	return content.Parts[0].Text, nil
}

func firstContent(resp *genai.GenerateContentResponse) (*genai.Content, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty response from model")
	}
	return resp.Candidates[0].Content, nil
}

// textContent wraps s into a content of the given role.
func textContent(role, s string) *genai.Content {
	return &genai.Content{Role: role, Parts: []*genai.Part{{Text: s}}}
}
