package evaluation

import (
	"sort"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// FieldEvaluation ranks permutations 1..N by ascending price, time and CO2, with the
// criteria ordered by descending importance. Equal importance keeps the order
// price, time, co2. Permutations equal in all criteria keep their creation order.
func FieldEvaluation(permutations []*entities.Permutation, part *entities.Part) {
	fields := []struct {
		importance int
		value      criterion
	}{
		{part.PriceImportance, byPrice},
		{part.TimeImportance, byTime},
		{part.CO2Importance, byCO2},
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].importance > fields[j].importance
	})

	ordered := make([]*entities.Permutation, len(permutations))
	copy(ordered, permutations)
	sort.SliceStable(ordered, func(i, j int) bool {
		for _, f := range fields {
			a, b := f.value(ordered[i]), f.value(ordered[j])
			if a != b {
				return a < b
			}
		}
		return false
	})

	for i, p := range ordered {
		p.Rank = i + 1
		p.ComparisonValue = nil
	}
}
