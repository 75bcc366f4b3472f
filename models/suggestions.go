package models

type CompetencySuggestion struct {
	Competencies []string `json:"competencias" jsonschema_description:"Lista de las competencias clave más relevantes."`
}

type Criterion struct {
	Number      string `json:"numero" jsonschema_description:"El número oficial del criterio (ej: \"1.1\", \"2.3\")."`
	Description string `json:"descripcion" jsonschema_description:"El texto completo del criterio de evaluación."`
}

type CriteriaList struct {
	Criteria []Criterion `json:"criterios"`
}

type ItemSuggestion struct {
	Items []EvaluationItemConfig `json:"items" jsonschema_description:"Lista de 3 a 5 ítems de evaluación con sus pesos porcentuales, que sumen 100."`
}
