// Package prompt assembles the natural-language requests sent to the
// generative model. Every builder is pure: it only formats its inputs and
// reflects the response schema the reply is validated against.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"rubricgen/models"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

const (
	NameCompetencies = "suggest_competencies"
	NameCriteria     = "fetch_criteria"
	NameItems        = "suggest_items"
	NameRubric       = "generate_rubric"
)

type Request struct {
	Name        string
	Description string
	Prompt      string
	Schema      *jsonschema.Schema
	RequiredKey string
	Temperature float32
}

func (r Request) SchemaJSON() (string, error) {
	raw, err := json.Marshal(r.Schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s schema: %w", r.Name, err)
	}
	return string(raw), nil
}

func BuildCompetencySuggestion(stage, subject, topic string, allCompetencies []string) Request {
	return Request{
		Name:        NameCompetencies,
		Description: "Selecciona las competencias clave más relevantes para el tema",
		Prompt: fmt.Sprintf(competencySuggestionPrompt,
			stage, subject, topic, strings.Join(allCompetencies, "\n")),
		Schema:      schemaFor[models.CompetencySuggestion](),
		RequiredKey: "competencias",
		Temperature: 0.3,
	}
}

func BuildCriteriaFetch(stage, subject, grade string, count int) Request {
	schema := schemaFor[models.CriteriaList]()
	if prop, ok := schema.Properties.Get("criterios"); ok {
		prop.Description = fmt.Sprintf("Lista de los %d criterios de evaluación más importantes.", count)
	}

	return Request{
		Name:        NameCriteria,
		Description: "Devuelve criterios de evaluación oficiales numerados",
		Prompt: fmt.Sprintf(criteriaFetchPrompt,
			stage, stage, subject, grade, count, count),
		Schema:      schema,
		RequiredKey: "criterios",
		Temperature: 0.2,
	}
}

func BuildItemSuggestion(stage, subject, topic string) Request {
	return Request{
		Name:        NameItems,
		Description: "Propone ítems de evaluación ponderados que suman 100",
		Prompt:      fmt.Sprintf(itemSuggestionPrompt, stage, subject, topic),
		Schema:      schemaFor[models.ItemSuggestion](),
		RequiredKey: "items",
		Temperature: 0.5,
	}
}

func BuildRubric(form models.FormModel) Request {
	items := lo.Map(form.EvaluationItems, func(item models.EvaluationItemConfig, _ int) string {
		return fmt.Sprintf("- %s: %s%%", item.Name, item.Weight)
	})
	levels := lo.Map(form.Levels, func(level models.LevelDefinition, _ int) string {
		return fmt.Sprintf("%s: %s", level.Name, level.Score)
	})

	return Request{
		Name:        NameRubric,
		Description: "Genera la rúbrica de evaluación completa",
		Prompt: fmt.Sprintf(rubricPrompt,
			form.Stage,
			form.Stage,
			form.Subject,
			form.Grade,
			form.Topic,
			strings.Join(items, "\n"),
			strings.Join(form.Competencies, ", "),
			form.Criteria,
			strings.Join(levels, "\n"),
		),
		Schema:      schemaFor[models.Rubric](),
		RequiredKey: "rubrica",
		Temperature: 0.7,
	}
}

func schemaFor[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	schema.ID = ""
	return schema
}
