// Package render projects a generated rubric into an HTML table and the
// documents built from it: the print view and the clipboard export.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"rubricgen/models"

	"github.com/samber/lo"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Header struct {
	Name  string
	Score string
	Color string
}

// Style is the inline style of the header cell. Colours come from
// GradientColors, never from the model.
func (h Header) Style() template.CSS {
	return template.CSS("background-color: " + h.Color + "; color: #ffffff; padding: 8px; text-align: left; vertical-align: top;")
}

type Cell struct {
	Level string
	Lines []string
}

type Row struct {
	Label        string
	Weight       string
	Criteria     []string
	Competencies []string
	Cells        []Cell
}

type Table struct {
	Headers []Header
	Rows    []Row
}

// BuildTable lays out one row per rubric item and one column per configured
// level. Cells are matched to levels by exact name; a level the model did not
// describe yields an empty cell.
func BuildTable(rubric *models.Rubric, levels []models.LevelDefinition) Table {
	colors := GradientColors(len(levels))

	table := Table{
		Headers: lo.Map(levels, func(level models.LevelDefinition, i int) Header {
			return Header{Name: level.Name, Score: level.Score, Color: colors[i]}
		}),
	}

	if rubric == nil {
		return table
	}

	table.Rows = make([]Row, len(rubric.Items))
	for i, item := range rubric.Items {
		row := Row{
			Label:        item.Item,
			Weight:       item.Weight,
			Criteria:     item.Criteria,
			Competencies: item.Competencies,
			Cells:        make([]Cell, len(levels)),
		}
		for j, level := range levels {
			row.Cells[j] = Cell{Level: level.Name}
			if desc, ok := item.LevelDescription(level.Name); ok {
				row.Cells[j].Lines = strings.Split(desc, "\n")
			}
		}
		table.Rows[i] = row
	}
	return table
}

// RenderTable renders the table fragment. All model text is escaped.
func RenderTable(rubric *models.Rubric, levels []models.LevelDefinition) (string, error) {
	if rubric == nil {
		return "", ErrNoResult
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "table.html", BuildTable(rubric, levels)); err != nil {
		return "", fmt.Errorf("rendering rubric table: %w", err)
	}
	return buf.String(), nil
}
