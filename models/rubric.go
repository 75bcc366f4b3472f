package models

type LevelDescription struct {
	Name        string `json:"nombre" jsonschema_description:"El nombre del nivel de desempeño (ej: Insuficiente). Debe coincidir con uno de los nombres proporcionados."`
	Description string `json:"descripcion" jsonschema_description:"Descripción detallada y observable del desempeño en este nivel para el ítem general. Puede contener saltos de línea (\\n) para separar puntos."`
}

type RubricItem struct {
	Item         string             `json:"item" jsonschema_description:"El nombre del ítem o dimensión a evaluar (ej: \"1. DELIBERACIÓN\")."`
	Weight       string             `json:"peso" jsonschema_description:"El peso porcentual del ítem (ej: \"35%\")."`
	Criteria     []string           `json:"criteriosAsociados" jsonschema_description:"Lista de los criterios de evaluación específicos del currículo asociados a este ítem."`
	Competencies []string           `json:"competenciasAsociadas" jsonschema_description:"Lista de abreviaturas de las competencias clave que este ítem evalúa. Ej: [\"CCL\", \"CD\"]"`
	Levels       []LevelDescription `json:"niveles"`
}

type Rubric struct {
	Items []RubricItem `json:"rubrica"`
}

// LevelDescription looks a level up by exact name.
func (r RubricItem) LevelDescription(name string) (string, bool) {
	for _, level := range r.Levels {
		if level.Name == name {
			return level.Description, true
		}
	}
	return "", false
}
