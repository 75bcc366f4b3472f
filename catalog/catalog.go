// Package catalog holds the fixed curriculum tables: educational stages, the
// grades and subjects offered in each stage, and the LOMLOE key competencies.
package catalog

import (
	"regexp"
	"slices"
)

const (
	StageSecondary = "Secundaria"
	StagePrimary   = "Primaria"
	StageInfant    = "Infantil"
)

var stages = []string{StageSecondary, StagePrimary, StageInfant}

var keyCompetencies = []string{
	"Competencia en comunicación lingüística (CCL)",
	"Competencia plurilingüe (CP)",
	"Competencia matemática y en ciencia, tecnología e ingeniería (STEM)",
	"Competencia digital (CD)",
	"Competencia personal, social y de aprender a aprender (CPSAA)",
	"Competencia ciudadana (CC)",
	"Competencia emprendedora (CE)",
	"Competencia en conciencia y expresión culturales (CCEC)",
}

var grades = map[string][]string{
	StageInfant: {"3 años", "4 años", "5 años"},
	StagePrimary: {
		"1º de Primaria", "2º de Primaria", "3º de Primaria",
		"4º de Primaria", "5º de Primaria", "6º de Primaria",
	},
	StageSecondary: {"1º de E.S.O.", "2º de E.S.O.", "3º de E.S.O.", "4º de E.S.O."},
}

var subjects = map[string][]string{
	StageInfant: {
		"Crecimiento en Armonía",
		"Descubrimiento y Exploración del Entorno",
		"Comunicación y Representación de la Realidad",
	},
	StagePrimary: {
		"Ciencias de la Naturaleza",
		"Ciencias Sociales",
		"Educación Artística",
		"Educación Física",
		"Lengua Castellana y Literatura",
		"Lengua Extranjera (Inglés)",
		"Matemáticas",
		"Valores Cívicos y Éticos",
	},
	StageSecondary: {
		"Biología y Geología",
		"Educación Física",
		"Educación Plástica, Visual y Audiovisual",
		"Física y Química",
		"Geografía e Historia",
		"Lengua Castellana y Literatura",
		"Lengua Extranjera (Inglés)",
		"Lengua Extranjera (Francés)",
		"Matemáticas",
		"Música",
		"Tecnología y Digitalización",
		"Valores Cívicos y Éticos",
	},
}

var codePattern = regexp.MustCompile(`\(([^()]+)\)\s*$`)

func Stages() []string {
	return slices.Clone(stages)
}

// GradesFor returns the grades of a stage in display order. Unknown stages
// yield an empty slice.
func GradesFor(stage string) []string {
	return cloneOrEmpty(grades[stage])
}

// SubjectsFor returns the subjects of a stage in display order. Unknown
// stages yield an empty slice.
func SubjectsFor(stage string) []string {
	return cloneOrEmpty(subjects[stage])
}

func Competencies() []string {
	return slices.Clone(keyCompetencies)
}

func IsKnownStage(stage string) bool {
	return slices.Contains(stages, stage)
}

// CompetencyCode extracts the trailing parenthesised abbreviation, so
// "Competencia digital (CD)" yields "CD". Names without one yield "".
func CompetencyCode(name string) string {
	m := codePattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

func cloneOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
