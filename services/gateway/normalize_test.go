package gateway

import (
	"testing"

	"rubricgen/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(weights ...string) []models.EvaluationItemConfig {
	out := make([]models.EvaluationItemConfig, len(weights))
	for i, w := range weights {
		out[i] = models.EvaluationItemConfig{Name: string(rune('A' + i)), Weight: w}
	}
	return out
}

func weightsOf(in []models.EvaluationItemConfig) []string {
	out := make([]string, len(in))
	for i, item := range in {
		out[i] = item.Weight
	}
	return out
}

func TestNormalizeWeights(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"already one hundred", []string{"40", "30", "30"}, []string{"40", "30", "30"}},
		{"under one hundred", []string{"30", "30", "30"}, []string{"33", "33", "34"}},
		{"over one hundred", []string{"50", "50", "50", "50"}, []string{"25", "25", "25", "25"}},
		{"half rounds up", []string{"3", "5"}, []string{"38", "62"}},
		{"scales small sets", []string{"1", "1", "2"}, []string{"25", "25", "50"}},
		{"non numeric counts as zero", []string{"60", "x", "60"}, []string{"50", "0", "50"}},
		{"single item", []string{"70"}, []string{"100"}},
		{"percent suffix", []string{"20%", "20%"}, []string{"50", "50"}},
		{"rounding stays within one hundred", []string{"1", "1", "1", "1", "1", "1", "0"}, []string{"17", "17", "17", "17", "17", "15", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWeights(items(tt.in...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, weightsOf(got))
			assert.Equal(t, 100, models.FormModel{EvaluationItems: got}.TotalWeight())
		})
	}
}

func TestNormalizeWeightsScalesAllButLast(t *testing.T) {
	in := items("10", "20", "40")
	got, err := NormalizeWeights(in)
	require.NoError(t, err)

	// 100/70 ≈ 1.4286: 14.29 → 14, 28.57 → 29, last absorbs 57.
	assert.Equal(t, []string{"14", "29", "57"}, weightsOf(got))
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "10", in[0].Weight, "input must not be mutated")
}

func TestNormalizeWeightsZeroTotal(t *testing.T) {
	for _, in := range [][]models.EvaluationItemConfig{
		nil,
		items("0", "0"),
		items("", "abc"),
	} {
		got, err := NormalizeWeights(in)
		assert.ErrorIs(t, err, ErrZeroTotalWeight)
		assert.Nil(t, got)
	}
}
