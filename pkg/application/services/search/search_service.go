package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/application/services/evaluation"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
	"github.com/vsinha/plafosus/pkg/domain/services"
	"github.com/vsinha/plafosus/pkg/infrastructure/events"
	"github.com/vsinha/plafosus/pkg/infrastructure/metrics"
)

// Config holds the limits of a search run
type Config struct {
	// MaxPermutations is the largest solution space a run may create (0 = unlimited)
	MaxPermutations int
	// Workers bounds the number of possibilities costed in parallel
	Workers int
	// ComparisonPrecision is the number of decimals comparison values are rounded to
	ComparisonPrecision int32
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() Config {
	return Config{
		MaxPermutations:     100000,
		Workers:             runtime.NumCPU(),
		ComparisonPrecision: evaluation.DefaultComparisonPrecision,
	}
}

// Service finds, costs and ranks every feasible way to manufacture a part
type Service struct {
	config       Config
	catalogRepo  repositories.CatalogRepository
	solutionRepo repositories.SolutionRepository
	auditLog     events.Log
	evaluator    *evaluation.Evaluator
	logger       *zap.Logger
}

// NewService creates a search service. The audit log is optional.
func NewService(
	config Config,
	catalogRepo repositories.CatalogRepository,
	solutionRepo repositories.SolutionRepository,
	auditLog events.Log,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &Service{
		config:       config,
		catalogRepo:  catalogRepo,
		solutionRepo: solutionRepo,
		auditLog:     auditLog,
		evaluator:    evaluation.NewEvaluator(config.ComparisonPrecision, logger),
		logger:       logger,
	}
}

// SearchSolution runs one complete search for the part and persists the ranked
// solution space. With an undefined evaluation method the unranked space is still
// persisted and returned together with ErrEvaluationMethodUndefined.
func (s *Service) SearchSolution(ctx context.Context, part *entities.Part) (*dto.SearchResult, error) {
	start := time.Now()
	recorder := metrics.NewSearchMetrics(part.EvaluationMethod.String())
	logger := s.logger.With(zap.String("part_id", string(part.ID)))

	s.appendEvent(events.NewSearchStartedEvent(part))

	result, err := s.search(ctx, part, recorder, logger)
	duration := time.Since(start)
	if result != nil {
		result.Stats.Duration = duration
	}
	recorder.RecordSearch(outcome(err), duration)

	if err != nil {
		if result == nil {
			s.appendEvent(events.NewSearchFailedEvent(part.ID, err))
		}
		logger.Error("solution search failed", zap.Error(err), zap.Duration("duration", duration))
		return result, err
	}

	logger.Info("solution search completed",
		zap.String("solution_space_id", string(result.Space.ID)),
		zap.Int("permutations", result.Stats.Permutations),
		zap.Int("possibilities_discarded", result.Stats.PossibilitiesDiscarded),
		zap.Duration("duration", duration))

	return result, nil
}

func (s *Service) search(
	ctx context.Context,
	part *entities.Part,
	recorder *metrics.SearchMetrics,
	logger *zap.Logger,
) (*dto.SearchResult, error) {
	catalog, err := s.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	// Step 1: Find candidate resource skills per step
	resolver := NewResolver(catalog, services.NewConstraintMatcher(catalog, logger), logger)
	possibilities := resolver.Resolve(part)

	// Step 2: Drop possibilities with a step nobody can perform
	kept, discarded := NewPossibilityFilter(logger).Filter(part.ID, possibilities)
	for _, d := range discarded {
		s.appendEvent(events.NewPossibilityDiscardedEvent(part.ID, d.Number, d.StepID, d.ProcessStepID, d.SequenceNumber))
	}
	recorder.RecordDiscarded(len(discarded))
	if len(kept) == 0 {
		return nil, fmt.Errorf("part %s: %w", part.ID, ErrInfeasiblePart)
	}

	// Step 3: Refuse solution spaces above the ceiling before enumerating
	enumerator := NewEnumerator(s.config.MaxPermutations)
	if _, err := enumerator.Count(kept); err != nil {
		return nil, fmt.Errorf("part %s: %w", part.ID, err)
	}

	// Step 4: Enumerate and cost every possibility
	space := entities.NewSolutionSpace(part.ID, part.EvaluationMethod)
	aggregator := NewCostAggregator(catalog)
	permutations, err := s.enumerate(ctx, space.ID, kept, enumerator, aggregator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate permutations for part %s: %w", part.ID, err)
	}
	if len(permutations) == 0 {
		return nil, fmt.Errorf("part %s: no possibility could be costed: %w", part.ID, ErrInfeasiblePart)
	}
	logger.Debug("permutations costed",
		zap.Int("permutations", len(permutations)),
		zap.Int("cost_table_entries", aggregator.TableSize()))
	space.Permutations = permutations

	// Step 5: Rank once all permutations exist
	evalErr := s.evaluator.Evaluate(space, part)
	if evalErr != nil && !errors.Is(evalErr, evaluation.ErrEvaluationMethodUndefined) {
		return nil, fmt.Errorf("failed to evaluate solution space for part %s: %w", part.ID, evalErr)
	}

	// Step 6: Persist the whole graph at once
	if err := s.solutionRepo.SaveSolutionSpace(ctx, space); err != nil {
		return nil, fmt.Errorf("failed to save solution space: %w", err)
	}
	s.appendEvent(events.NewSolutionSpaceCreatedEvent(space))
	if space.Ranked {
		s.appendEvent(events.NewSolutionSpaceRankedEvent(space))
	}
	recorder.RecordPermutations(len(space.Permutations))

	result := &dto.SearchResult{
		Space:         space,
		Possibilities: kept,
		Discarded:     discarded,
		Stats: dto.SearchStats{
			PossibilitiesTotal:     len(possibilities),
			PossibilitiesDiscarded: len(discarded),
			Permutations:           len(space.Permutations),
			Solutions:              countSolutions(space),
		},
	}

	if evalErr != nil {
		return result, fmt.Errorf("part %s: %w", part.ID, evalErr)
	}
	return result, nil
}

// costingError marks a failure confined to one manufacturing possibility
type costingError struct {
	err error
}

func (e *costingError) Error() string { return e.err.Error() }

func (e *costingError) Unwrap() error { return e.err }

// enumerate costs the possibilities concurrently and returns the permutations
// ordered by possibility, then product order. A possibility that cannot be
// costed is logged and dropped.
func (s *Service) enumerate(
	ctx context.Context,
	spaceID entities.SolutionSpaceID,
	possibilities []dto.ManufacturingPossibility,
	enumerator *Enumerator,
	aggregator *CostAggregator,
	logger *zap.Logger,
) ([]*entities.Permutation, error) {
	perPossibility := make([][]*entities.Permutation, len(possibilities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i, mp := range possibilities {
		g.Go(func() error {
			count, _ := mp.PermutationCount()
			permutations := make([]*entities.Permutation, 0, count)
			err := enumerator.Enumerate(gctx, mp, func(combination []entities.ResourceSkillID) error {
				p, err := aggregator.Build(spaceID, mp, combination)
				if err != nil {
					return &costingError{err: err}
				}
				permutations = append(permutations, p)
				return nil
			})
			var costErr *costingError
			if errors.As(err, &costErr) {
				logger.Warn("dropping manufacturing possibility: costing failed",
					zap.Int("manufacturing_possibility", mp.Number),
					zap.Error(costErr.err))
				return nil
			}
			if err != nil {
				return fmt.Errorf("manufacturing possibility %d: %w", mp.Number, err)
			}
			perPossibility[i] = permutations
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*entities.Permutation
	for _, permutations := range perPossibility {
		all = append(all, permutations...)
	}
	return all, nil
}

func (s *Service) appendEvent(event events.Event) {
	if s.auditLog == nil {
		return
	}
	if _, err := s.auditLog.Append(event); err != nil {
		s.logger.Warn("failed to append event", zap.String("event_type", event.Type), zap.Error(err))
	}
}

func countSolutions(space *entities.SolutionSpace) int {
	n := 0
	for _, p := range space.Permutations {
		n += len(p.Solutions)
	}
	return n
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeRanked
	case errors.Is(err, ErrInfeasiblePart):
		return metrics.OutcomeInfeasible
	case errors.Is(err, ErrSolutionSpaceTooLarge):
		return metrics.OutcomeTooLarge
	case errors.Is(err, evaluation.ErrEvaluationMethodUndefined):
		return metrics.OutcomeUndefined
	default:
		return metrics.OutcomeError
	}
}
