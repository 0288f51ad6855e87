package evaluation

import (
	"math"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

type criterion func(p *entities.Permutation) float64

var (
	byPrice criterion = func(p *entities.Permutation) float64 { return p.Price }
	byTime  criterion = func(p *entities.Permutation) float64 { return p.Time }
	byCO2   criterion = func(p *entities.Permutation) float64 { return p.CO2 }
)

func values(permutations []*entities.Permutation, c criterion) []float64 {
	out := make([]float64, len(permutations))
	for i, p := range permutations {
		out[i] = c(p)
	}
	return out
}

// Normalize applies min-max normalization where the smallest value is best:
// the minimum maps to 1 and the maximum to 0. If all values are equal the
// criterion has no influence and every result is 0.
func Normalize(vals []float64) []float64 {
	normalized := make([]float64, len(vals))
	if len(vals) == 0 {
		return normalized
	}

	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return normalized
	}

	for i, v := range vals {
		normalized[i] = math.Abs((v - hi) / (lo - hi))
	}
	return normalized
}
