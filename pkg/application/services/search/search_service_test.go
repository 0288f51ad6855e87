package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/application/services/evaluation"
	testhelpers "github.com/vsinha/plafosus/pkg/application/services/testing"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
	"github.com/vsinha/plafosus/pkg/domain/services"
	"github.com/vsinha/plafosus/pkg/infrastructure/events"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/memory"
)

// Helper to create a search service over in-memory repositories
func newTestService(t *testing.T, catalog repositories.CatalogRepository, config Config) (*Service, *memory.SolutionRepository, *events.MemoryLog) {
	t.Helper()
	solutions := memory.NewSolutionRepository()
	auditLog := events.NewMemoryLog()
	return NewService(config, catalog, solutions, auditLog, zaptest.NewLogger(t)), solutions, auditLog
}

func eventTypes(t *testing.T, auditLog *events.MemoryLog, partID entities.PartID) []string {
	t.Helper()
	all := auditLog.Stream(partID, 1)
	types := make([]string, len(all))
	for i, e := range all {
		types[i] = e.Type
	}
	return types
}

func TestSearchSolution_MillingScenario(t *testing.T) {
	ctx := context.Background()
	catalog, part := testhelpers.BuildMillingScenario()
	service, solutions, _ := newTestService(t, catalog, DefaultConfig())

	result, err := service.SearchSolution(ctx, part)
	require.NoError(t, err)

	space := result.Space
	require.Len(t, space.Permutations, 1)
	assert.True(t, space.Ranked)

	p := space.Permutations[0]
	assert.Equal(t, 25.0, p.Price)
	assert.Equal(t, 1, p.Rank)
	assert.Nil(t, p.ComparisonValue)
	assert.Equal(t, 1, p.ManufacturingPossibility)

	require.Len(t, p.Solutions, 1)
	sol := p.Solutions[0]
	assert.Equal(t, entities.ResourceSkillID("RS1"), sol.ResourceSkillID)
	assert.Equal(t, 10.0, sol.Quantity)
	assert.Equal(t, p.ID, sol.PermutationID)

	// Unused consumables are reported with zero values
	assert.Equal(t, []entities.ConsumableCost{{ConsumableID: "POWER"}}, sol.Consumables)
	assert.Equal(t, []entities.ConsumableCost{{ConsumableID: "POWER", IsOverall: true}}, p.Consumables)

	stored, err := solutions.GetSolutionSpace(ctx, space.ID)
	require.NoError(t, err)
	assert.Equal(t, space, stored)
}

func TestSearchSolution_BracketScenario(t *testing.T) {
	ctx := context.Background()
	catalog, part := testhelpers.BuildBracketScenario(entities.FieldEvaluation)
	service, _, store := newTestService(t, catalog, DefaultConfig())

	result, err := service.SearchSolution(ctx, part)
	require.NoError(t, err)

	expected := []struct {
		possibility      int
		resourceSkills   []entities.ResourceSkillID
		price, time, co2 float64
		rank             int
	}{
		{1, []entities.ResourceSkillID{"CNC_1_MILL", "CNC_1_DRILL"}, 26.9, 10, 5.8, 3},
		{1, []entities.ResourceSkillID{"CNC_1_MILL", "DP_DRILL"}, 23.9, 18, 5.8, 2},
		{1, []entities.ResourceSkillID{"CNC_1_MILL", "L_DRILL"}, 42.1, 11, 9.8, 6},
		{1, []entities.ResourceSkillID{"CNC_2_MILL", "CNC_1_DRILL"}, 34.8, 2, -2, 5},
		{1, []entities.ResourceSkillID{"CNC_2_MILL", "DP_DRILL"}, 31.8, 10, -2, 4},
		{1, []entities.ResourceSkillID{"CNC_2_MILL", "L_DRILL"}, 50, 3, 2, 7},
		{3, []entities.ResourceSkillID{"CNC_2_MILL"}, 6, 0.4, -2, 1},
	}

	require.Len(t, result.Space.Permutations, len(expected))
	for i, want := range expected {
		p := result.Space.Permutations[i]
		assert.Equal(t, want.possibility, p.ManufacturingPossibility, "permutation %d", i)
		assert.InDelta(t, want.price, p.Price, 1e-9, "permutation %d price", i)
		assert.InDelta(t, want.time, p.Time, 1e-9, "permutation %d time", i)
		assert.InDelta(t, want.co2, p.CO2, 1e-9, "permutation %d co2", i)
		assert.Equal(t, want.rank, p.Rank, "permutation %d rank", i)

		require.Len(t, p.Solutions, len(want.resourceSkills))
		var price, time, co2 float64
		for j, sol := range p.Solutions {
			assert.Equal(t, want.resourceSkills[j], sol.ResourceSkillID)
			price += sol.Price
			time += sol.Time
			co2 += sol.CO2
		}
		assert.InDelta(t, p.Price, price, 1e-9, "permutation total equals sum of solutions")
		assert.InDelta(t, p.Time, time, 1e-9)
		assert.InDelta(t, p.CO2, co2, 1e-9)
	}

	// Consumables of the first permutation: duplicate POWER rows are summed
	first := result.Space.Permutations[0]
	assert.Equal(t, []entities.ConsumableCost{
		{ConsumableID: "POWER", IsOverall: true, Quantity: 7, Price: 2.1, CO2: 2.8},
		{ConsumableID: "COOLANT", IsOverall: true, Quantity: 0.4, Price: 0.8, CO2: 0},
	}, first.Consumables)
	assert.Equal(t, []entities.ConsumableCost{
		{ConsumableID: "POWER", Quantity: 7, Price: 2.1, CO2: 2.8},
		{ConsumableID: "COOLANT"},
	}, first.Solutions[0].Consumables)

	require.Len(t, result.Discarded, 1)
	assert.Equal(t, 2, result.Discarded[0].Number)
	assert.Equal(t, entities.ProcessStepID("WELDING"), result.Discarded[0].ProcessStepID)

	assert.Equal(t, 3, result.Stats.PossibilitiesTotal)
	assert.Equal(t, 1, result.Stats.PossibilitiesDiscarded)
	assert.Equal(t, 7, result.Stats.Permutations)
	assert.Equal(t, 13, result.Stats.Solutions)

	assert.Equal(t, []string{
		events.SearchStartedEvent,
		events.PossibilityDiscardedEvent,
		events.SolutionSpaceCreatedEvent,
		events.SolutionSpaceRankedEvent,
	}, eventTypes(t, store, part.ID))
}

func TestSearchSolution_CriticAndWeightedRankEveryPermutation(t *testing.T) {
	for _, method := range []entities.EvaluationMethod{entities.WeightedFieldEvaluation, entities.CriticEvaluation} {
		t.Run(method.String(), func(t *testing.T) {
			catalog, part := testhelpers.BuildBracketScenario(method)
			service, _, _ := newTestService(t, catalog, DefaultConfig())

			result, err := service.SearchSolution(context.Background(), part)
			require.NoError(t, err)

			best := result.Space.Best()
			require.NotEmpty(t, best)
			for _, p := range result.Space.Permutations {
				assert.GreaterOrEqual(t, p.Rank, 1)
				require.NotNil(t, p.ComparisonValue)
				assert.LessOrEqual(t, *p.ComparisonValue, *best[0].ComparisonValue)
			}
		})
	}
}

func TestSearchSolution_InfeasiblePart(t *testing.T) {
	ctx := context.Background()
	catalog, part := testhelpers.BuildMillingScenario()
	part.ProcessSteps[0].Constraints[0].Value = "titanium"
	service, solutions, store := newTestService(t, catalog, DefaultConfig())

	result, err := service.SearchSolution(ctx, part)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrInfeasiblePart))
	assert.EqualError(t, err, "part P: no feasible manufacturing possibility")

	spaces, err := solutions.ListSolutionSpaces(ctx, part.ID)
	require.NoError(t, err)
	assert.Empty(t, spaces, "no solution space is created")

	assert.Equal(t, []string{
		events.SearchStartedEvent,
		events.PossibilityDiscardedEvent,
		events.SearchFailedEvent,
	}, eventTypes(t, store, part.ID))
}

func TestSearchSolution_SolutionSpaceTooLarge(t *testing.T) {
	ctx := context.Background()
	catalog, part := testhelpers.BuildLargeScenario(3, 5)
	config := DefaultConfig()
	config.MaxPermutations = 100
	service, solutions, _ := newTestService(t, catalog, config)

	_, err := service.SearchSolution(ctx, part)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolutionSpaceTooLarge))

	spaces, err := solutions.ListSolutionSpaces(ctx, part.ID)
	require.NoError(t, err)
	assert.Empty(t, spaces)

	config.MaxPermutations = 125
	service, _, _ = newTestService(t, catalog, config)
	result, err := service.SearchSolution(ctx, part)
	require.NoError(t, err)
	assert.Len(t, result.Space.Permutations, 125)
}

func TestSearchSolution_UndefinedEvaluationMethod(t *testing.T) {
	ctx := context.Background()
	catalog, part := testhelpers.BuildBracketScenario(entities.FieldEvaluation)
	part.EvaluationMethod = 9
	service, solutions, store := newTestService(t, catalog, DefaultConfig())

	result, err := service.SearchSolution(ctx, part)
	require.Error(t, err)
	assert.True(t, errors.Is(err, evaluation.ErrEvaluationMethodUndefined))

	require.NotNil(t, result)
	assert.False(t, result.Space.Ranked)
	for _, p := range result.Space.Permutations {
		assert.Equal(t, 0, p.Rank)
	}

	spaces, err := solutions.ListSolutionSpaces(ctx, part.ID)
	require.NoError(t, err)
	assert.Len(t, spaces, 1, "the unranked space is still persisted")

	assert.NotContains(t, eventTypes(t, store, part.ID), events.SolutionSpaceRankedEvent)
}

func TestSearchSolution_RerunCreatesNewSpace(t *testing.T) {
	ctx := context.Background()
	catalog, part := testhelpers.BuildMillingScenario()
	service, solutions, _ := newTestService(t, catalog, DefaultConfig())

	first, err := service.SearchSolution(ctx, part)
	require.NoError(t, err)
	second, err := service.SearchSolution(ctx, part)
	require.NoError(t, err)
	assert.NotEqual(t, first.Space.ID, second.Space.ID)

	spaces, err := solutions.ListSolutionSpaces(ctx, part.ID)
	require.NoError(t, err)
	assert.Len(t, spaces, 2)
}

func TestSearchSolution_DeterministicWithWorkers(t *testing.T) {
	ctx := context.Background()
	config := DefaultConfig()

	order := func(workers int) [][]entities.ResourceSkillID {
		catalog, part := testhelpers.BuildBracketScenario(entities.CriticEvaluation)
		config.Workers = workers
		service, _, _ := newTestService(t, catalog, config)
		result, err := service.SearchSolution(ctx, part)
		require.NoError(t, err)

		var out [][]entities.ResourceSkillID
		for _, p := range result.Space.Permutations {
			var rs []entities.ResourceSkillID
			for _, s := range p.Solutions {
				rs = append(rs, s.ResourceSkillID)
			}
			out = append(out, rs)
		}
		return out
	}

	assert.Equal(t, order(1), order(8))
}

func TestSearchSolution_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	catalog, part := testhelpers.BuildMillingScenario()
	service, _, _ := newTestService(t, catalog, DefaultConfig())

	_, err := service.SearchSolution(ctx, part)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSearchSolution_CatalogError(t *testing.T) {
	catalog := memory.NewCatalogRepository()
	catalog.AddSkill(entities.Skill{ID: "MILL", ProcessStepID: "UNKNOWN"})
	_, part := testhelpers.BuildMillingScenario()
	service, _, _ := newTestService(t, catalog, DefaultConfig())

	_, err := service.SearchSolution(context.Background(), part)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
}

func TestSearchSolution_UncostablePossibilityIsDropped(t *testing.T) {
	catalogRepo, part := testhelpers.BuildMillingScenario()
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)
	service := NewService(DefaultConfig(), catalogRepo, memory.NewSolutionRepository(), nil, logger)

	possibilities := NewResolver(catalog, services.NewConstraintMatcher(catalog, logger), logger).Resolve(part)
	require.Len(t, possibilities, 1)
	ghost := dto.ManufacturingPossibility{
		Number: 2,
		Steps: []dto.StepCandidates{
			{Step: possibilities[0].Steps[0].Step, Candidates: []entities.ResourceSkillID{"GHOST"}},
		},
	}
	possibilities = append(possibilities, ghost)

	permutations, err := service.enumerate(context.Background(), "SPACE", possibilities, NewEnumerator(0), NewCostAggregator(catalog), logger)
	require.NoError(t, err)
	require.Len(t, permutations, 1)
	assert.Equal(t, 1, permutations[0].ManufacturingPossibility)
	assert.Equal(t, float64(25), permutations[0].Price)

	dropped := logs.FilterMessage("dropping manufacturing possibility: costing failed").All()
	require.Len(t, dropped, 1)
	assert.Equal(t, int64(2), dropped[0].ContextMap()["manufacturing_possibility"])

	_, err = service.enumerate(context.Background(), "SPACE", []dto.ManufacturingPossibility{ghost}, NewEnumerator(0), NewCostAggregator(catalog), logger)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.enumerate(cancelled, "SPACE", possibilities, NewEnumerator(0), NewCostAggregator(catalog), logger)
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkSearchSolution(b *testing.B) {
	ctx := context.Background()
	catalog, part := testhelpers.BuildLargeScenario(4, 8)
	config := DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		service := NewService(config, catalog, memory.NewSolutionRepository(), nil, nil)
		if _, err := service.SearchSolution(ctx, part); err != nil {
			b.Fatal(err)
		}
	}
}
