package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"rubricgen/models"

	"github.com/atotto/clipboard"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrNoResult = errors.New("no rubric has been generated")
	ErrExport   = errors.New("rubric export failed")
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

var (
	exportPolicyOnce sync.Once
	exportPolicy     *bluemonday.Policy

	cssColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,6}|hsl\(\s*\d+(\.\d+)?\s*,\s*\d+%\s*,\s*\d+%\s*\))$`)
	cssPlain = regexp.MustCompile(`^[a-zA-Z0-9 .,%#-]+$`)
)

func exportSanitizer() *bluemonday.Policy {
	exportPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("table", "thead", "tbody", "tr", "th", "td", "p", "span")
		policy.AllowAttrs("style").Globally()
		policy.AllowStyles("background-color", "color").Matching(cssColor).Globally()
		policy.AllowStyles(
			"border", "border-collapse", "display", "font-family", "font-size",
			"font-weight", "margin", "padding", "text-align", "vertical-align", "width",
		).Matching(cssPlain).Globally()
		exportPolicy = policy
	})
	return exportPolicy
}

// ExportHTML renders the table and strips anything beyond table markup and
// inline styling, so the result can be pasted into a document editor.
func ExportHTML(rubric *models.Rubric, levels []models.LevelDefinition) (string, error) {
	fragment, err := RenderTable(rubric, levels)
	if err != nil {
		return "", err
	}

	cleaned := strings.TrimSpace(exportSanitizer().Sanitize(fragment))
	if cleaned == "" {
		return "", fmt.Errorf("%w: sanitised table is empty", ErrExport)
	}
	return cleaned, nil
}

func CopyToClipboard(html string) error {
	if err := clipboardWriteAll(html); err != nil {
		return fmt.Errorf("%w: copying to clipboard: %w", ErrExport, err)
	}
	return nil
}
