package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/plafosus/pkg/application/dto"
	testhelpers "github.com/vsinha/plafosus/pkg/application/services/testing"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/services"
)

func dtoStep(step *entities.PartProcessStep, candidates ...entities.ResourceSkillID) dto.StepCandidates {
	return dto.StepCandidates{Step: step, Candidates: candidates}
}

func TestResolver_Resolve(t *testing.T) {
	catalogRepo, part := testhelpers.BuildBracketScenario(entities.FieldEvaluation)
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	require.NoError(t, err)

	resolver := NewResolver(catalog, services.NewConstraintMatcher(catalog, nil), nil)
	possibilities := resolver.Resolve(part)

	require.Len(t, possibilities, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{possibilities[0].Number, possibilities[1].Number, possibilities[2].Number})

	first := possibilities[0]
	require.Len(t, first.Steps, 2)
	assert.Equal(t, entities.PartProcessStepID("S1"), first.Steps[0].Step.ID)
	assert.Equal(t, ids("CNC_1_MILL", "CNC_2_MILL"), first.Steps[0].Candidates)
	assert.Equal(t, ids("CNC_1_DRILL", "DP_DRILL", "L_DRILL"), first.Steps[1].Candidates)

	assert.Empty(t, possibilities[1].Steps[0].Candidates, "nobody welds steel")
	assert.Equal(t, ids("CNC_2_MILL"), possibilities[2].Steps[0].Candidates, "aluminium or titanium")
}

func TestResolver_IgnoresOtherProcessSteps(t *testing.T) {
	catalogRepo, _ := testhelpers.BuildBracketScenario(entities.FieldEvaluation)
	catalog, err := catalogRepo.LoadCatalog(context.Background())
	require.NoError(t, err)

	resolver := NewResolver(catalog, services.NewConstraintMatcher(catalog, nil), nil)
	step := &entities.PartProcessStep{ID: "X", ProcessStepID: "DRILLING"}

	// Without constraints every drilling skill qualifies, but no milling skill
	assert.Equal(t, ids("CNC_1_DRILL", "DP_DRILL", "L_DRILL"), resolver.Candidates(step))
}

func TestPossibilityFilter_Filter(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	filter := NewPossibilityFilter(zap.New(core))

	s1 := &entities.PartProcessStep{ID: "S1", ProcessStepID: "MILLING", ManufacturingSequenceNumber: 1}
	s2 := &entities.PartProcessStep{ID: "S2", ProcessStepID: "WELDING", ManufacturingSequenceNumber: 2}

	possibilities := []dto.ManufacturingPossibility{
		{Number: 1, Steps: []dto.StepCandidates{dtoStep(s1, "RS1")}},
		{Number: 2, Steps: []dto.StepCandidates{dtoStep(s1, "RS1"), dtoStep(s2)}},
	}

	kept, discarded := filter.Filter("P", possibilities)

	require.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].Number)
	assert.Equal(t, []dto.DiscardedPossibility{
		{Number: 2, StepID: "S2", ProcessStepID: "WELDING", SequenceNumber: 2},
	}, discarded)

	entries := logs.FilterMessage("discarding manufacturing possibility: no resource can perform step").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "WELDING", entries[0].ContextMap()["process_step_id"])
}
