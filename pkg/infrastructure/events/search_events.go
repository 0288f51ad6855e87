package events

import (
	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// Event types of the search audit trail
const (
	SearchStartedEvent        = "search.started"
	SearchFailedEvent         = "search.failed"
	PossibilityDiscardedEvent = "search.possibility.discarded"

	SolutionSpaceCreatedEvent = "solution_space.created"
	SolutionSpaceRankedEvent  = "solution_space.ranked"
)

type SearchStarted struct {
	PartID           entities.PartID           `json:"part_id"`
	EvaluationMethod entities.EvaluationMethod `json:"evaluation_method"`
	ProcessSteps     int                       `json:"process_steps"`
}

type SearchFailed struct {
	PartID entities.PartID `json:"part_id"`
	Reason string          `json:"reason"`
}

type PossibilityDiscarded struct {
	PartID                   entities.PartID            `json:"part_id"`
	ManufacturingPossibility int                        `json:"manufacturing_possibility"`
	StepID                   entities.PartProcessStepID `json:"step_id"`
	ProcessStepID            entities.ProcessStepID     `json:"process_step_id"`
	SequenceNumber           int                        `json:"sequence_number"`
}

type SolutionSpaceCreated struct {
	PartID          entities.PartID          `json:"part_id"`
	SolutionSpaceID entities.SolutionSpaceID `json:"solution_space_id"`
	Permutations    int                      `json:"permutations"`
}

type SolutionSpaceRanked struct {
	PartID           entities.PartID           `json:"part_id"`
	SolutionSpaceID  entities.SolutionSpaceID  `json:"solution_space_id"`
	EvaluationMethod entities.EvaluationMethod `json:"evaluation_method"`
	Best             []entities.PermutationID  `json:"best"`
}

func NewSearchStartedEvent(part *entities.Part) Event {
	return newEvent(SearchStartedEvent, part.ID, SearchStarted{
		PartID:           part.ID,
		EvaluationMethod: part.EvaluationMethod,
		ProcessSteps:     len(part.ProcessSteps),
	})
}

func NewSearchFailedEvent(partID entities.PartID, err error) Event {
	return newEvent(SearchFailedEvent, partID, SearchFailed{
		PartID: partID,
		Reason: err.Error(),
	})
}

func NewPossibilityDiscardedEvent(
	partID entities.PartID,
	possibility int,
	stepID entities.PartProcessStepID,
	processStepID entities.ProcessStepID,
	sequenceNumber int,
) Event {
	return newEvent(PossibilityDiscardedEvent, partID, PossibilityDiscarded{
		PartID:                   partID,
		ManufacturingPossibility: possibility,
		StepID:                   stepID,
		ProcessStepID:            processStepID,
		SequenceNumber:           sequenceNumber,
	})
}

func NewSolutionSpaceCreatedEvent(space *entities.SolutionSpace) Event {
	return newEvent(SolutionSpaceCreatedEvent, space.PartID, SolutionSpaceCreated{
		PartID:          space.PartID,
		SolutionSpaceID: space.ID,
		Permutations:    len(space.Permutations),
	})
}

func NewSolutionSpaceRankedEvent(space *entities.SolutionSpace) Event {
	best := make([]entities.PermutationID, 0)
	for _, p := range space.Best() {
		best = append(best, p.ID)
	}
	return newEvent(SolutionSpaceRankedEvent, space.PartID, SolutionSpaceRanked{
		PartID:           space.PartID,
		SolutionSpaceID:  space.ID,
		EvaluationMethod: space.EvaluationMethod,
		Best:             best,
	})
}
