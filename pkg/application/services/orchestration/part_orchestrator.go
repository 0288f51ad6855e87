package orchestration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
	"github.com/vsinha/plafosus/pkg/domain/services"
)

// GeometryAnalyzer derives geometry information from a 3D model file
type GeometryAnalyzer interface {
	Analyze(path string) (*entities.Geometry, error)
}

// SolutionSearcher runs the solution search for a part
type SolutionSearcher interface {
	SearchSolution(ctx context.Context, part *entities.Part) (*dto.SearchResult, error)
}

// PartOrchestrator coordinates part creation: validation, geometry analysis,
// persistence and the solution search that follows
type PartOrchestrator struct {
	partRepo    repositories.PartRepository
	catalogRepo repositories.CatalogRepository
	searcher    SolutionSearcher
	analyzer    GeometryAnalyzer
	logger      *zap.Logger
}

// NewPartOrchestrator creates a new part orchestrator. The analyzer is optional.
func NewPartOrchestrator(
	partRepo repositories.PartRepository,
	catalogRepo repositories.CatalogRepository,
	searcher SolutionSearcher,
	analyzer GeometryAnalyzer,
	logger *zap.Logger,
) *PartOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartOrchestrator{
		partRepo:    partRepo,
		catalogRepo: catalogRepo,
		searcher:    searcher,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// CreatePart validates and stores a new part, then searches its solutions.
// A failing search is reported in the result and never fails the creation.
func (po *PartOrchestrator) CreatePart(ctx context.Context, part *entities.Part) (*dto.PartCreationResult, error) {
	logger := po.logger.With(zap.String("part_id", string(part.ID)))

	// Step 1: Data-entry validation
	if err := po.validate(ctx, part); err != nil {
		return nil, err
	}

	// Step 2: Geometry analysis of the uploaded model
	if part.ModelFile != "" && po.analyzer != nil {
		geometry, err := po.analyzer.Analyze(part.ModelFile)
		if err != nil {
			logger.Error("could not analyze model file",
				zap.String("model_file", part.ModelFile),
				zap.Error(err))
			geometry = &entities.Geometry{IsValid: false}
		}
		part.Geometry = geometry
	}

	// Step 3: Persist
	if err := po.partRepo.SavePart(ctx, part); err != nil {
		return nil, fmt.Errorf("failed to save part: %w", err)
	}

	// Step 4: Search
	result := &dto.PartCreationResult{Part: part}
	result.Search, result.SearchErr = po.searcher.SearchSolution(ctx, part)
	if result.SearchErr != nil {
		logger.Warn("part created but solution search did not succeed", zap.Error(result.SearchErr))
	}

	return result, nil
}

// UpdatePart validates and replaces a stored part. Updates do not trigger a search.
func (po *PartOrchestrator) UpdatePart(ctx context.Context, part *entities.Part) error {
	if err := po.validate(ctx, part); err != nil {
		return err
	}
	if err := po.partRepo.UpdatePart(ctx, part); err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	return nil
}

// SearchPart re-runs the search for a stored part, creating a new solution space
func (po *PartOrchestrator) SearchPart(ctx context.Context, id entities.PartID) (*dto.SearchResult, error) {
	part, err := po.partRepo.GetPart(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load part: %w", err)
	}
	return po.searcher.SearchSolution(ctx, part)
}

func (po *PartOrchestrator) validate(ctx context.Context, part *entities.Part) error {
	catalog, err := po.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := services.NewPartValidator(catalog).ValidatePart(part); err != nil {
		return fmt.Errorf("invalid part %s: %w", part.ID, err)
	}
	if part.ModelFile != "" {
		if err := services.ValidateModelFile(part.ModelFile); err != nil {
			return fmt.Errorf("invalid part %s: %w", part.ID, err)
		}
	}
	return nil
}
