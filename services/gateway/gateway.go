// Package gateway is the only place that talks to the generative model. It
// sends a prompt with its response schema, parses the reply and refuses
// anything that does not match the schema.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rubricgen/logger"
	"rubricgen/services/prompt"
)

// Generator performs one JSON-mode completion and returns the raw reply text.
type Generator interface {
	Generate(ctx context.Context, req prompt.Request) (string, error)
}

type Gateway struct {
	generator Generator
	log       *logger.Logger
	schemas   schemaCache
}

func New(generator Generator, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{generator: generator, log: log}
}

// Invoke sends req and returns the reply once it parses as a JSON object whose
// required key holds an array. There is no retry; deadlines come from ctx.
func (g *Gateway) Invoke(ctx context.Context, req prompt.Request) (json.RawMessage, error) {
	start := time.Now()
	g.log.Info("Calling model", "op", req.Name, "temperature", req.Temperature)

	text, err := g.generator.Generate(ctx, req)
	if err != nil {
		g.log.Error("Model call failed", "op", req.Name, "error", err)
		return nil, &UpstreamError{Op: req.Name, Err: err}
	}

	text = strings.TrimSpace(text)

	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		g.log.Warn("Model reply is not a JSON object", "op", req.Name, "error", err)
		return nil, &ValidationError{Op: req.Name, Reason: "reply is not a JSON object", Err: err}
	}

	value, ok := doc[req.RequiredKey]
	if !ok {
		g.log.Warn("Model reply lacks required key", "op", req.Name, "key", req.RequiredKey)
		return nil, &ValidationError{Op: req.Name, Reason: fmt.Sprintf("missing required key %q", req.RequiredKey)}
	}
	if _, isList := value.([]any); !isList {
		g.log.Warn("Model reply key is not a list", "op", req.Name, "key", req.RequiredKey)
		return nil, &ValidationError{Op: req.Name, Reason: fmt.Sprintf("key %q is not a list", req.RequiredKey)}
	}

	g.log.Info("Model call completed", "op", req.Name, "elapsed", time.Since(start))
	return json.RawMessage(text), nil
}

// Decode invokes req, checks the whole reply against req.Schema and then
// unmarshals it into T.
func Decode[T any](ctx context.Context, g *Gateway, req prompt.Request) (*T, error) {
	raw, err := g.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Op: req.Name, Reason: "reply is not valid JSON", Err: err}
	}

	if req.Schema != nil {
		sch, err := g.schemas.get(req)
		if err != nil {
			return nil, err
		}
		if err := sch.Validate(doc); err != nil {
			reason := describeViolations(err)
			g.log.Warn("Model reply failed schema validation", "op", req.Name, "error", reason)
			return nil, &ValidationError{Op: req.Name, Reason: reason}
		}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ValidationError{Op: req.Name, Reason: "reply does not match the expected shape", Err: err}
	}
	return &out, nil
}
