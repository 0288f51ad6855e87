package evaluation

import (
	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// WeightedValues returns the comparison value of every permutation: the sum of the
// normalized criteria weighted with the part's importances. Greater is better.
func WeightedValues(permutations []*entities.Permutation, part *entities.Part) []float64 {
	price := Normalize(values(permutations, byPrice))
	time := Normalize(values(permutations, byTime))
	co2 := Normalize(values(permutations, byCO2))

	result := make([]float64, len(permutations))
	for i := range permutations {
		result[i] = float64(part.PriceImportance)*price[i] +
			float64(part.TimeImportance)*time[i] +
			float64(part.CO2Importance)*co2[i]
	}
	return result
}
