package entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SolutionSpaceID identifies one search run for a part
type SolutionSpaceID string

// PermutationID identifies one feasible resource-skill assignment
type PermutationID string

// SolutionID identifies one step assignment inside a permutation
type SolutionID string

// ConsumableCost is a computed quantity/price/CO2 snapshot for one consumable.
// IsOverall distinguishes the permutation-level rollup from a solution-level contribution.
type ConsumableCost struct {
	ConsumableID ConsumableID `json:"consumable_id"`
	IsOverall    bool         `json:"is_overall"`
	Quantity     float64      `json:"quantity"`
	Price        float64      `json:"price"`
	CO2          float64      `json:"co2"`
}

// Solution assigns one resource skill to one part process step
type Solution struct {
	ID                          SolutionID        `json:"id"`
	PermutationID               PermutationID     `json:"permutation_id"`
	PartProcessStepID           PartProcessStepID `json:"part_process_step_id"`
	ResourceSkillID             ResourceSkillID   `json:"resource_skill_id"`
	ManufacturingSequenceNumber int               `json:"manufacturing_sequence_number"`
	Quantity                    float64           `json:"quantity"`
	Price                       float64           `json:"price"`
	Time                        float64           `json:"time"`
	CO2                         float64           `json:"co2"`
	Consumables                 []ConsumableCost  `json:"consumables"`
}

// Permutation is one full resource-skill assignment across all steps of a
// manufacturing possibility. Rank 0 means not ranked yet.
type Permutation struct {
	ID                       PermutationID    `json:"id"`
	SolutionSpaceID          SolutionSpaceID  `json:"solution_space_id"`
	Rank                     int              `json:"rank"`
	ComparisonValue          *float64         `json:"comparison_value"`
	ManufacturingPossibility int              `json:"manufacturing_possibility"`
	Price                    float64          `json:"price"`
	Time                     float64          `json:"time"`
	CO2                      float64          `json:"co2"`
	Solutions                []Solution       `json:"solutions"`
	Consumables              []ConsumableCost `json:"consumables"`
}

// NewPermutation creates an unranked permutation with a fresh id
func NewPermutation(spaceID SolutionSpaceID, manufacturingPossibility int) *Permutation {
	return &Permutation{
		ID:                       PermutationID(uuid.NewString()),
		SolutionSpaceID:          spaceID,
		ManufacturingPossibility: manufacturingPossibility,
	}
}

// SolutionSpace is the root collection of all permutations found for a part in one run
type SolutionSpace struct {
	ID               SolutionSpaceID  `json:"id"`
	PartID           PartID           `json:"part_id"`
	EvaluationMethod EvaluationMethod `json:"evaluation_method"`
	Ranked           bool             `json:"ranked"`
	CreatedAt        time.Time        `json:"created_at"`
	Permutations     []*Permutation   `json:"permutations"`
}

// NewSolutionSpace creates an empty, unranked solution space for a part
func NewSolutionSpace(partID PartID, method EvaluationMethod) *SolutionSpace {
	return &SolutionSpace{
		ID:               SolutionSpaceID(uuid.NewString()),
		PartID:           partID,
		EvaluationMethod: method,
		CreatedAt:        time.Now().UTC(),
	}
}

// RankedPermutations returns the permutations ordered by rank. Permutations
// sharing a rank keep their creation order.
func (s *SolutionSpace) RankedPermutations() []*Permutation {
	ordered := make([]*Permutation, len(s.Permutations))
	copy(ordered, s.Permutations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rank < ordered[j].Rank
	})
	return ordered
}

// Best returns the permutations holding rank 1, or nil if the space is not ranked
func (s *SolutionSpace) Best() []*Permutation {
	if !s.Ranked {
		return nil
	}
	var best []*Permutation
	for _, p := range s.Permutations {
		if p.Rank == 1 {
			best = append(best, p)
		}
	}
	return best
}
