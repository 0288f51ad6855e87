package search

import "errors"

var (
	// ErrInfeasiblePart is returned when no manufacturing possibility has a
	// candidate for every step. No solution space is created.
	ErrInfeasiblePart = errors.New("no feasible manufacturing possibility")

	// ErrSolutionSpaceTooLarge is returned when the number of permutations exceeds
	// the configured ceiling. Nothing is persisted.
	ErrSolutionSpaceTooLarge = errors.New("solution space too large")
)
