package render

import (
	"bytes"
	"fmt"
	"html/template"

	"rubricgen/models"
)

const printDelayMillis = 1000

type printDocument struct {
	Table            template.HTML
	PrintDelayMillis int
}

// RenderPrintDocument wraps the rubric table in a standalone page that opens
// the print dialog once loaded and closes itself afterwards.
func RenderPrintDocument(rubric *models.Rubric, levels []models.LevelDefinition) (string, error) {
	fragment, err := RenderTable(rubric, levels)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	doc := printDocument{Table: template.HTML(fragment), PrintDelayMillis: printDelayMillis}
	if err := templates.ExecuteTemplate(&buf, "print.html", doc); err != nil {
		return "", fmt.Errorf("rendering print document: %w", err)
	}
	return buf.String(), nil
}
