package render

import (
	"fmt"
	"strconv"
)

const singleLevelColor = "#22c55e"

// GradientColors returns one header colour per level, from green (hue 120)
// for the first level down to red (hue 0) for the last.
func GradientColors(n int) []string {
	if n <= 1 {
		return []string{singleLevelColor}
	}

	colors := make([]string, n)
	for i := range n {
		hue := 120 - 120*float64(i)/float64(n-1)
		colors[i] = fmt.Sprintf("hsl(%s, 90%%, 55%%)", strconv.FormatFloat(hue, 'f', -1, 64))
	}
	return colors
}
