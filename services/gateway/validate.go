package gateway

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"rubricgen/services/prompt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var violationPrinter = message.NewPrinter(language.English)

// schemaCache compiles each request's response schema once, keyed by the
// request name. Builders only vary descriptions between calls, never shape.
type schemaCache struct {
	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
}

func (c *schemaCache) get(req prompt.Request) (*jsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sch, ok := c.schemas[req.Name]; ok {
		return sch, nil
	}

	raw, err := req.SchemaJSON()
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s schema: %w", req.Name, err)
	}

	url := "mem:///" + req.Name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("failed to load %s schema: %w", req.Name, err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", req.Name, err)
	}

	if c.schemas == nil {
		c.schemas = make(map[string]*jsonschema.Schema)
	}
	c.schemas[req.Name] = sch
	return sch, nil
}

// describeViolations flattens a validation failure into one line per leaf
// cause, each prefixed with the offending field path.
func describeViolations(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}

	var lines []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			lines = append(lines, fieldPath(e.InstanceLocation)+": "+e.ErrorKind.LocalizedString(violationPrinter))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return strings.Join(lines, "; ")
}

// fieldPath renders an instance location as rubrica[0].niveles[1].nombre.
func fieldPath(tokens []string) string {
	if len(tokens) == 0 {
		return "$"
	}
	var sb strings.Builder
	for _, tok := range tokens {
		switch {
		case isIndex(tok):
			sb.WriteString("[" + tok + "]")
		case sb.Len() == 0:
			sb.WriteString(tok)
		default:
			sb.WriteString("." + tok)
		}
	}
	return sb.String()
}

func isIndex(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
