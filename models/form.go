package models

import (
	"slices"
	"strconv"
	"strings"
)

type LevelDefinition struct {
	Name  string `json:"nombre" yaml:"nombre"`
	Score string `json:"puntuacion" yaml:"puntuacion"`
}

type EvaluationItemConfig struct {
	Name   string `json:"name" yaml:"name" jsonschema_description:"El nombre del ítem a evaluar (ej: \"Análisis de Estructura\")."`
	Weight string `json:"weight" yaml:"weight" jsonschema_description:"El peso porcentual como un string numérico sin el símbolo % (ej: \"40\")."`
}

type FormModel struct {
	Stage           string                 `json:"stage" yaml:"stage"`
	Subject         string                 `json:"subject" yaml:"subject"`
	Grade           string                 `json:"grade" yaml:"grade"`
	Topic           string                 `json:"topic" yaml:"topic"`
	Criteria        string                 `json:"criteria" yaml:"criteria"`
	Levels          []LevelDefinition      `json:"levels" yaml:"levels"`
	Competencies    []string               `json:"competencies" yaml:"competencies"`
	EvaluationItems []EvaluationItemConfig `json:"evaluationItems" yaml:"evaluationItems"`
}

// DefaultForm is the example the tool starts with. It is consistent with the
// catalog for its stage.
func DefaultForm() FormModel {
	return FormModel{
		Stage:   "Secundaria",
		Subject: "Lengua Castellana y Literatura",
		Grade:   "2º de E.S.O.",
		Topic:   "Análisis de un texto narrativo.",
		Criteria: "1.1. Identificar los elementos de la narración (narrador, personajes, espacio y tiempo).\n" +
			"2.2. Analizar la estructura del relato (planteamiento, nudo y desenlace).\n" +
			"3.1. Utilizar correctamente la terminología literaria en el análisis de textos.",
		Levels: []LevelDefinition{
			{Name: "Sobresaliente", Score: "9-10"},
			{Name: "Notable", Score: "7-8"},
			{Name: "Bien", Score: "6"},
			{Name: "Suficiente", Score: "5"},
			{Name: "Insuficiente", Score: "1-4"},
		},
		Competencies: []string{
			"Competencia en comunicación lingüística (CCL)",
			"Competencia digital (CD)",
			"Competencia personal, social y de aprender a aprender (CPSAA)",
		},
		EvaluationItems: []EvaluationItemConfig{
			{Name: "1. Comprensión del texto", Weight: "40"},
			{Name: "2. Análisis de elementos narrativos", Weight: "30"},
			{Name: "3. Expresión y uso del vocabulario", Weight: "30"},
		},
	}
}

// Clone returns a deep copy.
func (f FormModel) Clone() FormModel {
	out := f
	out.Levels = slices.Clone(f.Levels)
	out.Competencies = slices.Clone(f.Competencies)
	out.EvaluationItems = slices.Clone(f.EvaluationItems)
	return out
}

func (f FormModel) TotalWeight() int {
	total := 0
	for _, item := range f.EvaluationItems {
		total += ParseWeight(item.Weight)
	}
	return total
}

func (f FormModel) HasCompetency(name string) bool {
	return slices.Contains(f.Competencies, name)
}

// ParseWeight reads the leading run of decimal digits, ignoring surrounding
// whitespace. "40%" is 40; "", "abc" and "-5" are 0.
func ParseWeight(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// DigitsOnly strips every non-digit character, as the weight input does.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, s)
}
