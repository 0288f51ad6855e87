package dto

import (
	"fmt"
	"time"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// StepCandidates lists the resource skills able to perform one part process step
type StepCandidates struct {
	Step       *entities.PartProcessStep
	Candidates []entities.ResourceSkillID
}

// ManufacturingPossibility groups the steps of one alternative process chain,
// ordered by sequence number
type ManufacturingPossibility struct {
	Number int
	Steps  []StepCandidates
}

// UnperformableStep returns the first step without candidates, or nil when every
// step can be performed
func (mp ManufacturingPossibility) UnperformableStep() *entities.PartProcessStep {
	for _, sc := range mp.Steps {
		if len(sc.Candidates) == 0 {
			return sc.Step
		}
	}
	return nil
}

// PermutationCount returns the number of combinations of the possibility.
// The second return value is false when the count overflows.
func (mp ManufacturingPossibility) PermutationCount() (int, bool) {
	count := 1
	for _, step := range mp.Steps {
		n := len(step.Candidates)
		if n == 0 {
			return 0, true
		}
		if count > maxInt/n {
			return 0, false
		}
		count *= n
	}
	return count, true
}

const maxInt = int(^uint(0) >> 1)

// DiscardedPossibility records a possibility dropped because a step had no candidate
type DiscardedPossibility struct {
	Number         int
	StepID         entities.PartProcessStepID
	ProcessStepID  entities.ProcessStepID
	SequenceNumber int
}

// SearchStats summarizes one search run
type SearchStats struct {
	PossibilitiesTotal     int
	PossibilitiesDiscarded int
	Permutations           int
	Solutions              int
	Duration               time.Duration
}

// SearchResult contains the complete output of a search run
type SearchResult struct {
	Space         *entities.SolutionSpace
	Possibilities []ManufacturingPossibility
	Discarded     []DiscardedPossibility
	Stats         SearchStats
}

// PartCreationResult contains the outcome of the part creation workflow.
// SearchErr is set when the part was created but the search did not succeed.
type PartCreationResult struct {
	Part      *entities.Part
	Search    *SearchResult
	SearchErr error
}

// GetSummary returns a formatted summary of the part creation
func (r *PartCreationResult) GetSummary() string {
	summary := fmt.Sprintf("Part %s created", r.Part.ID)
	if r.Part.Geometry != nil {
		summary += fmt.Sprintf(" (watertight: %t, volume: %.0f mm³)", r.Part.Geometry.IsValid, r.Part.Geometry.Volume)
	}
	summary += "\n"
	if r.SearchErr != nil {
		return summary + fmt.Sprintf("  Search failed: %v", r.SearchErr)
	}
	if r.Search == nil || r.Search.Space == nil {
		return summary + "  No search was run"
	}
	summary += fmt.Sprintf("  Search: %d permutations in %d possibilities, %d discarded\n",
		r.Search.Stats.Permutations,
		r.Search.Stats.PossibilitiesTotal-r.Search.Stats.PossibilitiesDiscarded,
		r.Search.Stats.PossibilitiesDiscarded)
	summary += fmt.Sprintf("  Best permutations: %d", len(r.Search.Space.Best()))
	return summary
}
