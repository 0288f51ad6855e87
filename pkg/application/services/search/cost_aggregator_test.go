package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	testhelpers "github.com/vsinha/plafosus/pkg/application/services/testing"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/services"
)

func TestCostAggregator_MemoizesPairings(t *testing.T) {
	catalogRepo, part := testhelpers.BuildBracketScenario(entities.CriticEvaluation)
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	possibilities := NewResolver(catalog, services.NewConstraintMatcher(catalog, logger), logger).Resolve(part)
	first := possibilities[0]

	aggregator := NewCostAggregator(catalog)
	err = NewEnumerator(0).Enumerate(context.Background(), first, func(c []entities.ResourceSkillID) error {
		_, err := aggregator.Build("SPACE", first, c)
		return err
	})
	require.NoError(t, err)

	// 2 milling candidates + 3 drilling candidates, shared by 6 permutations
	assert.Equal(t, 5, aggregator.TableSize())
}

func TestCostAggregator_Build(t *testing.T) {
	catalogRepo, part := testhelpers.BuildBracketScenario(entities.CriticEvaluation)
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	require.NoError(t, err)

	steps := part.OrderedProcessSteps()
	mp := possibility(1)
	mp.Steps = append(mp.Steps,
		dtoStep(steps[0], "CNC_2_MILL"),
		dtoStep(steps[1], "L_DRILL"),
	)

	p, err := NewCostAggregator(catalog).Build("SPACE", mp, ids("CNC_2_MILL", "L_DRILL"))
	require.NoError(t, err)

	assert.Equal(t, entities.SolutionSpaceID("SPACE"), p.SolutionSpaceID)
	assert.Equal(t, 0, p.Rank)
	assert.Equal(t, 50.0, p.Price)
	assert.Equal(t, 3.0, p.Time)
	assert.Equal(t, 2.0, p.CO2, "negative CO2 of the solar mill is not clamped")

	require.Len(t, p.Solutions, 2)
	assert.Equal(t, -2.0, p.Solutions[0].CO2)
	assert.Equal(t, 1, p.Solutions[0].ManufacturingSequenceNumber)
	assert.Equal(t, 2, p.Solutions[1].ManufacturingSequenceNumber)
	assert.NotEqual(t, p.Solutions[0].ID, p.Solutions[1].ID)

	for _, sol := range p.Solutions {
		require.Len(t, sol.Consumables, 2, "one record per known consumable")
		for _, c := range sol.Consumables {
			assert.False(t, c.IsOverall)
		}
	}
	require.Len(t, p.Consumables, 2)
	assert.True(t, p.Consumables[0].IsOverall)
}

func TestCostAggregator_Errors(t *testing.T) {
	catalogRepo, part := testhelpers.BuildMillingScenario()
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	require.NoError(t, err)

	step := part.OrderedProcessSteps()[0]
	mp := possibility(1)
	mp.Steps = append(mp.Steps, dtoStep(step, "RS_UNKNOWN"))

	_, err = NewCostAggregator(catalog).Build("SPACE", mp, ids("RS_UNKNOWN"))
	assert.EqualError(t, err, "unknown resource skill RS_UNKNOWN")

	_, err = NewCostAggregator(catalog).Build("SPACE", mp, ids("RS1", "RS2"))
	assert.EqualError(t, err, "combination has 2 resource skills for 1 steps")
}

func TestCostAggregator_StepsSharingAnID(t *testing.T) {
	catalogRepo, part := testhelpers.BuildMillingScenario()
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	require.NoError(t, err)

	larger := part.ProcessSteps[0]
	larger.RequiredQuantity = 100
	larger.ManufacturingPossibility = 2
	part.AddProcessStep(larger)

	logger := zaptest.NewLogger(t)
	possibilities := NewResolver(catalog, services.NewConstraintMatcher(catalog, logger), logger).Resolve(part)
	require.Len(t, possibilities, 2)

	aggregator := NewCostAggregator(catalog)
	prices := make([]float64, 0, 2)
	for _, mp := range possibilities {
		permutation, err := aggregator.Build("SPACE", mp, []entities.ResourceSkillID{"RS1"})
		require.NoError(t, err)
		prices = append(prices, permutation.Price)
	}

	assert.Equal(t, []float64{25, 205}, prices)
	assert.Equal(t, 2, aggregator.TableSize())
}
