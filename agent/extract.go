package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/points"
	"google.golang.org/genai"
)

// ErrCouldNotParse is returned when the text cannot be turned into a draft.
var ErrCouldNotParse = errors.New("could not parse program data")

// Extractor turns free text into a draft program.
type Extractor interface {
	ParseFreeText(ctx context.Context, text string) (points.Draft, error)
}

func programTypeNames() []string {
	names := make([]string, 0, len(points.ProgramTypes))
	for _, t := range points.ProgramTypes {
		names = append(names, string(t))
	}
	return names
}

func benefitTypeNames() []string {
	names := make([]string, 0, len(points.BenefitTypes))
	for _, t := range points.BenefitTypes {
		names = append(names, string(t))
	}
	return names
}

// draftSchema is the response schema of the extraction, it mirrors points.Draft.
var draftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"programName":  {Type: genai.TypeString, Description: "Name of the specific program (e.g., Sapphire Reserve, SkyMiles)"},
		"provider":     {Type: genai.TypeString, Description: "The company providing the points (e.g., Chase, Amex, Delta)"},
		"balance":      {Type: genai.TypeNumber, Description: "Current point or mile balance"},
		"currencyName": {Type: genai.TypeString, Description: "Name of the currency (e.g. Points, Miles)"},
		"expirationDate": {
			Type:        genai.TypeString,
			Description: "Expiration date in YYYY-MM-DD format, or empty if not found or no expiration.",
		},
		"type": {
			Type:        genai.TypeString,
			Enum:        programTypeNames(),
			Description: "Category of the program",
		},
		"benefits": {
			Type:        genai.TypeArray,
			Description: "List of benefits mentioned or generally known for this card/program level.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":          {Type: genai.TypeString},
					"description":    {Type: genai.TypeString},
					"type":           {Type: genai.TypeString, Enum: benefitTypeNames()},
					"count":          {Type: genai.TypeInteger, Description: "Number of identical benefits, like 2 free night certificates."},
					"expirationDate": {Type: genai.TypeString, Description: "Expiration date of this benefit in YYYY-MM-DD format, if any."},
				},
				Required: []string{"title"},
			},
		},
	},
	Required: []string{"programName", "provider", "balance", "type", "currencyName"},
}

const extractionPrompt = `Extract loyalty program or credit card details from the following text.
If specific benefits aren't listed but the card name is known (e.g. "Amex Platinum"),
infer top 3 common benefits.

Text to parse:
%q`

// ParseFreeText asks the model to extract one program from text.
// Any failure is reported as ErrCouldNotParse.
func (g *Gemini) ParseFreeText(ctx context.Context, text string) (points.Draft, error) {
	if strings.TrimSpace(text) == "" {
		return points.Draft{}, fmt.Errorf("%w: nothing to parse", ErrCouldNotParse)
	}
	resp, err := g.Models.GenerateContent(ctx, g.Model,
		[]*genai.Content{textContent("user", fmt.Sprintf(extractionPrompt, text))},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   draftSchema,
		})
	if err != nil {
		log.Printf("Gemini parsing error: %v", err)
		return points.Draft{}, fmt.Errorf("%w: %w", ErrCouldNotParse, err)
	}
	raw, err := firstText(resp)
	if err != nil {
		return points.Draft{}, fmt.Errorf("%w: %w", ErrCouldNotParse, err)
	}
	d, err := DecodeDraft(raw)
	if err != nil {
		log.Printf("Gemini returned an unusable draft %q: %v", raw, err)
		return points.Draft{}, fmt.Errorf("%w: %w", ErrCouldNotParse, err)
	}
	return d, nil
}

var fence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\n?```$")

// stripFence removes a markdown code fence around s, if any.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// draftPaths are tried in order to locate the draft object in the model output.
var draftPaths = []string{"$.program", "$[0]", "$"}

// DecodeDraft reads a draft from the JSON returned by the model. The draft
// may be the whole document, its first element, or a "program" field, and
// may be wrapped in a markdown code fence.
func DecodeDraft(raw string) (points.Draft, error) {
	var doc any
	if err := json.Unmarshal([]byte(stripFence(raw)), &doc); err != nil {
		return points.Draft{}, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, path := range draftPaths {
		v, err := jsonpath.Get(path, doc)
		if err != nil {
			continue
		}
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return points.Draft{}, err
		}
		var d points.Draft
		if err := json.Unmarshal(data, &d); err != nil {
			return points.Draft{}, fmt.Errorf("invalid draft: %w", err)
		}
		return d, nil
	}
	return points.Draft{}, errors.New("response has no program object")
}
