package repositories

import (
	"context"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// PartRepository provides access to parts and their process steps
type PartRepository interface {
	GetPart(ctx context.Context, id entities.PartID) (*entities.Part, error)
	GetAllParts(ctx context.Context) ([]*entities.Part, error)
	SavePart(ctx context.Context, part *entities.Part) error
	UpdatePart(ctx context.Context, part *entities.Part) error
}
