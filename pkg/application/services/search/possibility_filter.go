package search

import (
	"go.uber.org/zap"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// PossibilityFilter drops manufacturing possibilities that cannot be produced
type PossibilityFilter struct {
	logger *zap.Logger
}

// NewPossibilityFilter creates a filter that logs every discarded possibility
func NewPossibilityFilter(logger *zap.Logger) *PossibilityFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PossibilityFilter{logger: logger}
}

// Filter keeps the possibilities in which every step has at least one candidate.
// A discarded possibility is reported with its first step lacking candidates.
func (f *PossibilityFilter) Filter(
	partID entities.PartID,
	possibilities []dto.ManufacturingPossibility,
) ([]dto.ManufacturingPossibility, []dto.DiscardedPossibility) {
	kept := make([]dto.ManufacturingPossibility, 0, len(possibilities))
	var discarded []dto.DiscardedPossibility

	for _, mp := range possibilities {
		missing := mp.UnperformableStep()
		if missing == nil {
			kept = append(kept, mp)
			continue
		}

		f.logger.Warn("discarding manufacturing possibility: no resource can perform step",
			zap.String("part_id", string(partID)),
			zap.Int("manufacturing_possibility", mp.Number),
			zap.String("process_step_id", string(missing.ProcessStepID)),
			zap.Int("sequence_number", missing.ManufacturingSequenceNumber))

		discarded = append(discarded, dto.DiscardedPossibility{
			Number:         mp.Number,
			StepID:         missing.ID,
			ProcessStepID:  missing.ProcessStepID,
			SequenceNumber: missing.ManufacturingSequenceNumber,
		})
	}

	return kept, discarded
}
