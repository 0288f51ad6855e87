package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
)

// SolutionRepository provides in-memory solution space storage. A space is stored
// under a single lock, so readers see either all of it or nothing.
type SolutionRepository struct {
	spaces map[entities.SolutionSpaceID]*entities.SolutionSpace
	byPart map[entities.PartID][]entities.SolutionSpaceID
	mutex  sync.RWMutex
}

// NewSolutionRepository creates a new in-memory solution repository
func NewSolutionRepository() *SolutionRepository {
	return &SolutionRepository{
		spaces: make(map[entities.SolutionSpaceID]*entities.SolutionSpace),
		byPart: make(map[entities.PartID][]entities.SolutionSpaceID),
	}
}

// Verify interface compliance
var _ repositories.SolutionRepository = (*SolutionRepository)(nil)

// SaveSolutionSpace stores a copy of the space. Spaces are write-once.
func (r *SolutionRepository) SaveSolutionSpace(ctx context.Context, space *entities.SolutionSpace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := cloneSpace(space)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.spaces[space.ID]; exists {
		return fmt.Errorf("solution space %s already stored", space.ID)
	}
	r.spaces[space.ID] = stored
	r.byPart[space.PartID] = append(r.byPart[space.PartID], space.ID)
	return nil
}

// GetSolutionSpace returns a copy of the stored space
func (r *SolutionRepository) GetSolutionSpace(ctx context.Context, id entities.SolutionSpaceID) (*entities.SolutionSpace, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	space, exists := r.spaces[id]
	if !exists {
		return nil, fmt.Errorf("solution space %s: %w", id, repositories.ErrNotFound)
	}
	return cloneSpace(space), nil
}

// ListSolutionSpaces returns all spaces of a part, newest first
func (r *SolutionRepository) ListSolutionSpaces(ctx context.Context, partID entities.PartID) ([]*entities.SolutionSpace, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := r.byPart[partID]
	spaces := make([]*entities.SolutionSpace, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		spaces = append(spaces, cloneSpace(r.spaces[ids[i]]))
	}
	sort.SliceStable(spaces, func(i, j int) bool {
		return spaces[i].CreatedAt.After(spaces[j].CreatedAt)
	})
	return spaces, nil
}

func cloneSpace(space *entities.SolutionSpace) *entities.SolutionSpace {
	c := *space
	c.Permutations = make([]*entities.Permutation, len(space.Permutations))
	for i, p := range space.Permutations {
		pc := *p
		if p.ComparisonValue != nil {
			v := *p.ComparisonValue
			pc.ComparisonValue = &v
		}
		pc.Consumables = append([]entities.ConsumableCost(nil), p.Consumables...)
		pc.Solutions = make([]entities.Solution, len(p.Solutions))
		for j, s := range p.Solutions {
			s.Consumables = append([]entities.ConsumableCost(nil), s.Consumables...)
			pc.Solutions[j] = s
		}
		c.Permutations[i] = &pc
	}
	return &c
}
