package gateway

import (
	"math"
	"strconv"

	"rubricgen/models"

	"github.com/samber/lo"
)

// NormalizeWeights rescales suggested items so their weights add up to 100.
// Sets that already sum to 100 come back untouched. Otherwise every item but
// the last is scaled by 100/total and rounded half up, and the last item takes
// whatever is left. Rounded weights are capped so their running sum never
// passes 100, which keeps the last weight non-negative. A zero total,
// including an empty list, is rejected.
func NormalizeWeights(items []models.EvaluationItemConfig) ([]models.EvaluationItemConfig, error) {
	total := lo.SumBy(items, func(item models.EvaluationItemConfig) int {
		return models.ParseWeight(item.Weight)
	})
	if total == 0 {
		return nil, ErrZeroTotalWeight
	}
	if total == 100 {
		return items, nil
	}

	scale := 100 / float64(total)
	adjusted := make([]models.EvaluationItemConfig, len(items))
	sum := 0
	for i, item := range items {
		adjusted[i] = item
		if i == len(items)-1 {
			adjusted[i].Weight = strconv.Itoa(100 - sum)
			break
		}
		w := min(int(math.Floor(float64(models.ParseWeight(item.Weight))*scale+0.5)), 100-sum)
		sum += w
		adjusted[i].Weight = strconv.Itoa(w)
	}
	return adjusted, nil
}
