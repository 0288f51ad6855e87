package evaluation

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// RankByComparisonValue stores the rounded comparison value on every permutation
// and ranks them in descending order. Equal values share a rank and the next
// distinct value takes the following rank (1, 1, 2, 3, 3, 4).
// Equality is decided on the values rounded to precision, not on the raw floats,
// so values differing only beyond precision tie and the stored values agree with
// the ranks.
func RankByComparisonValue(permutations []*entities.Permutation, vals []float64, precision int32) {
	rounded := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		rounded[i] = decimal.NewFromFloat(v).Round(precision)
	}

	order := make([]int, len(permutations))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rounded[order[a]].GreaterThan(rounded[order[b]])
	})

	rank := 0
	for n, i := range order {
		if n == 0 || !rounded[i].Equal(rounded[order[n-1]]) {
			rank++
		}
		value := rounded[i].InexactFloat64()
		permutations[i].Rank = rank
		permutations[i].ComparisonValue = &value
	}
}
