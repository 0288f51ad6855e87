package repositories

import (
	"context"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// SolutionRepository persists the output graph of search runs
type SolutionRepository interface {
	// SaveSolutionSpace stores a solution space with all permutations, solutions and
	// consumable costs atomically. Readers never observe a partially stored space.
	SaveSolutionSpace(ctx context.Context, space *entities.SolutionSpace) error
	GetSolutionSpace(ctx context.Context, id entities.SolutionSpaceID) (*entities.SolutionSpace, error)
	// ListSolutionSpaces returns all solution spaces of a part, newest first
	ListSolutionSpaces(ctx context.Context, partID entities.PartID) ([]*entities.SolutionSpace, error)
}
