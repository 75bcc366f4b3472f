package gateway

import (
	"context"
	"fmt"

	"rubricgen/services/prompt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req prompt.Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   ToGenAISchema(req.Schema),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GenAI returned an empty response")
	}
	return text, nil
}

// ToGenAISchema converts a reflected JSON schema into the OpenAPI subset the
// Gemini API accepts. Property order is preserved.
func ToGenAISchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}

	if s.Items != nil {
		out.Items = ToGenAISchema(s.Items)
	}

	if s.Properties != nil && s.Properties.Len() > 0 {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = ToGenAISchema(pair.Value)
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
	}

	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
