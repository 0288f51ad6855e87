package evaluation

import (
	"math"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// Weights are the objective criterion weights derived by CRITIC
type Weights struct {
	Price float64
	Time  float64
	CO2   float64
}

// CriticValues scores permutations with CRITIC weights (Diakoulaki et al., 1995)
// and a WASPAS-style weighted sum over the normalized criteria
func CriticValues(permutations []*entities.Permutation) ([]float64, Weights) {
	x := [3][]float64{
		Normalize(values(permutations, byPrice)),
		Normalize(values(permutations, byTime)),
		Normalize(values(permutations, byCO2)),
	}

	w := criticWeights(x)

	result := make([]float64, len(permutations))
	for i := range permutations {
		result[i] = w[0]*x[0][i] + w[1]*x[1][i] + w[2]*x[2][i]
	}
	return result, Weights{Price: w[0], Time: w[1], CO2: w[2]}
}

// criticWeights computes w_j = c_j / Σc with c_j = stdev_j * Σ_{k≠j}(1 - r_jk).
// A criterion without variance is uncorrelated with the others and has c_j = 0.
func criticWeights(x [3][]float64) [3]float64 {
	var stdevs [3]float64
	for j := range x {
		stdevs[j] = sampleStdev(x[j])
	}

	var c [3]float64
	sum := 0.0
	for j := range x {
		conflict := 0.0
		for k := range x {
			if k == j {
				continue
			}
			conflict += 1 - pearson(x[j], x[k])
		}
		c[j] = stdevs[j] * conflict
		sum += c[j]
	}

	var w [3]float64
	if sum == 0 {
		return w
	}
	for j := range c {
		w[j] = c[j] / sum
	}
	return w
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range xs {
		total += v
	}
	return total / float64(len(xs))
}

func sampleStdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, v := range xs {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// pearson returns the correlation coefficient of x and y, or 0 if either has no variance
func pearson(x, y []float64) float64 {
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}
