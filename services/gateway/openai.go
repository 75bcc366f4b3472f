package gateway

import (
	"context"
	"fmt"

	"rubricgen/services/prompt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const openAISchemaSuffix = `

Responde únicamente con un objeto JSON que cumpla este esquema JSON:
%s`

type OpenAIGenerator struct {
	llm llms.Model
}

func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIGenerator{llm: llm}, nil
}

func (o *OpenAIGenerator) Generate(ctx context.Context, req prompt.Request) (string, error) {
	text := req.Prompt
	if req.Schema != nil {
		schema, err := req.SchemaJSON()
		if err != nil {
			return "", err
		}
		text += fmt.Sprintf(openAISchemaSuffix, schema)
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, o.llm, text,
		llms.WithTemperature(float64(req.Temperature)),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate LLM response: %w", err)
	}
	return completion, nil
}
