package prompt

import (
	"testing"

	"rubricgen/catalog"
	"rubricgen/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildersCarryKeysAndTemperatures(t *testing.T) {
	form := models.DefaultForm()

	tests := []struct {
		name        string
		req         Request
		key         string
		temperature float32
	}{
		{"competencies", BuildCompetencySuggestion("Primaria", "Matemáticas", "Fracciones", catalog.Competencies()), "competencias", 0.3},
		{"criteria", BuildCriteriaFetch("Primaria", "Matemáticas", "3º de Primaria", 4), "criterios", 0.2},
		{"items", BuildItemSuggestion("Primaria", "Matemáticas", "Fracciones"), "items", 0.5},
		{"rubric", BuildRubric(form), "rubrica", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.req.RequiredKey)
			assert.InDelta(t, tt.temperature, tt.req.Temperature, 1e-6)
			require.NotNil(t, tt.req.Schema)
			assert.Equal(t, "object", tt.req.Schema.Type)
			assert.Contains(t, tt.req.Schema.Required, tt.key)

			prop, ok := tt.req.Schema.Properties.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, "array", prop.Type)
		})
	}
}

func TestCompetencyPromptListsClosedSet(t *testing.T) {
	all := catalog.Competencies()
	req := BuildCompetencySuggestion("Secundaria", "Música", "El ritmo", all)

	for _, c := range all {
		assert.Contains(t, req.Prompt, c)
	}
	assert.Contains(t, req.Prompt, "**Tema a evaluar:** El ritmo")
	assert.Contains(t, req.Prompt, "3 o 4")
}

func TestCriteriaPromptStatesCount(t *testing.T) {
	req := BuildCriteriaFetch("Secundaria", "Música", "1º de E.S.O.", 7)

	assert.Contains(t, req.Prompt, "**Número de criterios a seleccionar:** 7")
	assert.Contains(t, req.Prompt, "selecciona los 7 más importantes")

	prop, ok := req.Schema.Properties.Get("criterios")
	require.True(t, ok)
	assert.Equal(t, "Lista de los 7 criterios de evaluación más importantes.", prop.Description)
	require.NotNil(t, prop.Items)
	assert.ElementsMatch(t, []string{"numero", "descripcion"}, prop.Items.Required)
}

func TestRubricPromptEmbedsExactWeights(t *testing.T) {
	form := models.DefaultForm()
	req := BuildRubric(form)

	assert.Contains(t, req.Prompt, "- 1. Comprensión del texto: 40%")
	assert.Contains(t, req.Prompt, "- 2. Análisis de elementos narrativos: 30%")
	assert.Contains(t, req.Prompt, "- 3. Expresión y uso del vocabulario: 30%")
	assert.Contains(t, req.Prompt, "DEBES RESPETARLOS EXACTAMENTE")
	assert.Contains(t, req.Prompt, "Sobresaliente: 9-10\nNotable: 7-8")
	assert.Contains(t, req.Prompt, "Competencia digital (CD), ")
	assert.Contains(t, req.Prompt, form.Criteria)
	assert.NotContains(t, req.Prompt, "%!")
}

func TestRubricSchemaRequiresEveryItemField(t *testing.T) {
	req := BuildRubric(models.DefaultForm())

	prop, ok := req.Schema.Properties.Get("rubrica")
	require.True(t, ok)
	require.NotNil(t, prop.Items)
	assert.ElementsMatch(t,
		[]string{"item", "peso", "criteriosAsociados", "competenciasAsociadas", "niveles"},
		prop.Items.Required)

	raw, err := req.SchemaJSON()
	require.NoError(t, err)
	assert.Contains(t, raw, `"rubrica"`)
	assert.NotContains(t, raw, `"$schema"`)
}
