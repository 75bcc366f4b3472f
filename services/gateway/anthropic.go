package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"rubricgen/services/prompt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGenerator gets structured output by forcing a single tool call
// whose input schema is the response schema; the tool input is the reply.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicGenerator(apiKey, model string) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicGenerator{client: &client, model: model}, nil
}

func (a *AnthropicGenerator) Generate(ctx context.Context, req prompt.Request) (string, error) {
	response, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   8192,
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &anthropic.ToolParam{
				Name:        req.Name,
				Description: anthropic.String(req.Description),
				InputSchema: anthropicInputSchema(req),
			}},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.Name},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	for _, block := range response.Content {
		if toolUse, ok := block.AsAny().(anthropic.ToolUseBlock); ok && toolUse.Name == req.Name {
			inputJSON, err := json.Marshal(toolUse.Input)
			if err != nil {
				return "", fmt.Errorf("failed to marshal tool input: %w", err)
			}
			return string(inputJSON), nil
		}
	}

	return "", fmt.Errorf("no %s tool call in Anthropic response (stop reason %s)", req.Name, response.StopReason)
}

func anthropicInputSchema(req prompt.Request) anthropic.ToolInputSchemaParam {
	if req.Schema == nil {
		return anthropic.ToolInputSchemaParam{}
	}
	return anthropic.ToolInputSchemaParam{
		Properties: req.Schema.Properties,
		ExtraFields: map[string]any{
			"required": req.Schema.Required,
		},
	}
}
