package search

import (
	"context"
	"fmt"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// Enumerator produces the Cartesian product of step candidates
type Enumerator struct {
	maxPermutations int
}

// NewEnumerator creates an enumerator refusing solution spaces larger than
// maxPermutations. A non-positive ceiling disables the check.
func NewEnumerator(maxPermutations int) *Enumerator {
	return &Enumerator{maxPermutations: maxPermutations}
}

// Count returns the total number of permutations over all possibilities, or
// ErrSolutionSpaceTooLarge if it exceeds the ceiling or overflows
func (e *Enumerator) Count(possibilities []dto.ManufacturingPossibility) (int, error) {
	total := 0
	for _, mp := range possibilities {
		n, ok := mp.PermutationCount()
		if !ok || total > maxInt-n {
			return 0, fmt.Errorf("%w: permutation count overflows", ErrSolutionSpaceTooLarge)
		}
		total += n
		if e.maxPermutations > 0 && total > e.maxPermutations {
			return 0, fmt.Errorf("%w: more than %d permutations", ErrSolutionSpaceTooLarge, e.maxPermutations)
		}
	}
	return total, nil
}

const maxInt = int(^uint(0) >> 1)

// Enumerate calls yield once per combination of the possibility, in product
// order with the last step varying fastest. The slice passed to yield is owned
// by the callee.
func (e *Enumerator) Enumerate(
	ctx context.Context,
	mp dto.ManufacturingPossibility,
	yield func(combination []entities.ResourceSkillID) error,
) error {
	if len(mp.Steps) == 0 {
		return nil
	}
	for _, sc := range mp.Steps {
		if len(sc.Candidates) == 0 {
			return nil
		}
	}

	indices := make([]int, len(mp.Steps))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		combination := make([]entities.ResourceSkillID, len(mp.Steps))
		for i, sc := range mp.Steps {
			combination[i] = sc.Candidates[indices[i]]
		}
		if err := yield(combination); err != nil {
			return err
		}

		// odometer increment, rightmost position first
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(mp.Steps[pos].Candidates) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return nil
		}
	}
}
