package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
)

// PartRepository provides in-memory part storage
type PartRepository struct {
	parts    []entities.Part
	partsMap map[entities.PartID]int
	mutex    sync.RWMutex
}

// NewPartRepository creates a new in-memory part repository
func NewPartRepository(expectedParts int) *PartRepository {
	return &PartRepository{
		parts:    make([]entities.Part, 0, expectedParts),
		partsMap: make(map[entities.PartID]int, expectedParts),
	}
}

// Verify interface compliance
var _ repositories.PartRepository = (*PartRepository)(nil)

// LoadParts loads parts into the repository
func (r *PartRepository) LoadParts(parts []*entities.Part) error {
	for _, part := range parts {
		if err := r.SavePart(context.Background(), part); err != nil {
			return err
		}
	}
	return nil
}

// GetPart returns a copy of the part
func (r *PartRepository) GetPart(ctx context.Context, id entities.PartID) (*entities.Part, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	index, exists := r.partsMap[id]
	if !exists {
		return nil, fmt.Errorf("part %s: %w", id, repositories.ErrNotFound)
	}
	return clonePart(&r.parts[index]), nil
}

// GetAllParts returns all parts in insertion order
func (r *PartRepository) GetAllParts(ctx context.Context) ([]*entities.Part, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	parts := make([]*entities.Part, 0, len(r.parts))
	for i := range r.parts {
		parts = append(parts, clonePart(&r.parts[i]))
	}
	return parts, nil
}

// SavePart stores a new part
func (r *PartRepository) SavePart(ctx context.Context, part *entities.Part) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.partsMap[part.ID]; exists {
		return fmt.Errorf("part %s: %w", part.ID, repositories.ErrPartExists)
	}
	r.partsMap[part.ID] = len(r.parts)
	r.parts = append(r.parts, *clonePart(part))
	return nil
}

// UpdatePart replaces an existing part
func (r *PartRepository) UpdatePart(ctx context.Context, part *entities.Part) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	index, exists := r.partsMap[part.ID]
	if !exists {
		return fmt.Errorf("part %s: %w", part.ID, repositories.ErrNotFound)
	}
	r.parts[index] = *clonePart(part)
	return nil
}

func clonePart(part *entities.Part) *entities.Part {
	c := *part
	if part.Geometry != nil {
		g := *part.Geometry
		c.Geometry = &g
	}
	c.ProcessSteps = make([]entities.PartProcessStep, len(part.ProcessSteps))
	for i, step := range part.ProcessSteps {
		step.Constraints = append([]entities.Constraint(nil), step.Constraints...)
		c.ProcessSteps[i] = step
	}
	return &c
}
