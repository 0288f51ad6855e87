package entities

import (
	"fmt"
	"sort"
)

// PartID uniquely identifies a part
type PartID string

// PartProcessStepID identifies one required process step of a part
type PartProcessStepID string

// ConstraintID identifies a constraint of a part process step
type ConstraintID string

// MaxImportance is the upper bound of the criterion importance weights
const MaxImportance = 10

// EvaluationMethod selects how the permutations of a solution space are ranked
type EvaluationMethod int

const (
	FieldEvaluation EvaluationMethod = iota + 1
	WeightedFieldEvaluation
	CriticEvaluation
)

// String method for EvaluationMethod enum
func (m EvaluationMethod) String() string {
	switch m {
	case FieldEvaluation:
		return "FieldEvaluation"
	case WeightedFieldEvaluation:
		return "WeightedFieldEvaluation"
	case CriticEvaluation:
		return "CriticEvaluation"
	default:
		return "Unknown"
	}
}

// IsValid reports whether m is one of the defined evaluation methods
func (m EvaluationMethod) IsValid() bool {
	return m >= FieldEvaluation && m <= CriticEvaluation
}

// Operator is the comparison a constraint applies to an ability value
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpLess           Operator = "<"
	OpGreater        Operator = ">"
	OpLessOrEqual    Operator = "<="
	OpGreaterOrEqual Operator = ">="
)

// IsValid reports whether o is one of the supported operators
func (o Operator) IsValid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpLess, OpGreater, OpLessOrEqual, OpGreaterOrEqual:
		return true
	default:
		return false
	}
}

// Geometry holds the results of the 3D model analysis of a part.
// The values are informational and never used for matching or costing.
type Geometry struct {
	IsValid      bool    `json:"is_valid"`
	Volume       float64 `json:"volume"`
	BoundingBoxX float64 `json:"bounding_box_x"`
	BoundingBoxY float64 `json:"bounding_box_y"`
	BoundingBoxZ float64 `json:"bounding_box_z"`
}

// Constraint is a part process step's demand on a requirement
type Constraint struct {
	ID            ConstraintID
	RequirementID RequirementID
	Value         string
	Operator      Operator
	Optional      bool
}

// NewConstraint creates a validated Constraint
func NewConstraint(id ConstraintID, requirementID RequirementID, operator Operator, value string, optional bool) (*Constraint, error) {
	if id == "" {
		return nil, fmt.Errorf("constraint id cannot be empty")
	}
	if requirementID == "" {
		return nil, fmt.Errorf("constraint %s: requirement cannot be empty", id)
	}
	if !operator.IsValid() {
		return nil, fmt.Errorf("constraint %s: unknown operator %q", id, operator)
	}

	return &Constraint{
		ID:            id,
		RequirementID: requirementID,
		Value:         value,
		Operator:      operator,
		Optional:      optional,
	}, nil
}

// PartProcessStep is a required occurrence of a process step for a part.
// Steps sharing a manufacturing possibility form one candidate process plan.
type PartProcessStep struct {
	ID                          PartProcessStepID
	ProcessStepID               ProcessStepID
	RequiredQuantity            float64
	ManufacturingPossibility    int
	ManufacturingSequenceNumber int
	Constraints                 []Constraint
}

// NewPartProcessStep creates a validated PartProcessStep
func NewPartProcessStep(
	id PartProcessStepID,
	processStepID ProcessStepID,
	requiredQuantity float64,
	manufacturingPossibility, sequenceNumber int,
	constraints ...Constraint,
) (*PartProcessStep, error) {
	if id == "" {
		return nil, fmt.Errorf("part process step id cannot be empty")
	}
	if processStepID == "" {
		return nil, fmt.Errorf("part process step %s: process step cannot be empty", id)
	}
	if requiredQuantity < 0 {
		return nil, fmt.Errorf("part process step %s: required quantity cannot be negative, got %g", id, requiredQuantity)
	}
	if manufacturingPossibility <= 0 {
		return nil, fmt.Errorf("part process step %s: manufacturing possibility must be positive, got %d", id, manufacturingPossibility)
	}
	if sequenceNumber < 0 {
		return nil, fmt.Errorf("part process step %s: sequence number cannot be negative, got %d", id, sequenceNumber)
	}

	return &PartProcessStep{
		ID:                          id,
		ProcessStepID:               processStepID,
		RequiredQuantity:            requiredQuantity,
		ManufacturingPossibility:    manufacturingPossibility,
		ManufacturingSequenceNumber: sequenceNumber,
		Constraints:                 constraints,
	}, nil
}

// OptionalAlternatives returns the other optional constraints of the step that
// target the same requirement as the i-th constraint
func (s *PartProcessStep) OptionalAlternatives(i int) []Constraint {
	var alternatives []Constraint
	for j, other := range s.Constraints {
		if j == i || !other.Optional {
			continue
		}
		if other.RequirementID == s.Constraints[i].RequirementID {
			alternatives = append(alternatives, other)
		}
	}
	return alternatives
}

// Part is the object to manufacture
type Part struct {
	ID               PartID
	Name             string
	ModelFile        string
	Geometry         *Geometry
	EvaluationMethod EvaluationMethod
	PriceImportance  int
	TimeImportance   int
	CO2Importance    int
	ProcessSteps     []PartProcessStep
}

// NewPart creates a validated Part without process steps
func NewPart(id PartID, name string, method EvaluationMethod, priceImportance, timeImportance, co2Importance int) (*Part, error) {
	if id == "" {
		return nil, fmt.Errorf("part id cannot be empty")
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("part %s: evaluation method must be between %d and %d, got %d", id, FieldEvaluation, CriticEvaluation, method)
	}
	importances := []struct {
		criterion string
		value     int
	}{
		{"price", priceImportance},
		{"time", timeImportance},
		{"co2", co2Importance},
	}
	for _, importance := range importances {
		if importance.value < 0 || importance.value > MaxImportance {
			return nil, fmt.Errorf("part %s: %s importance must be between 0 and %d, got %d", id, importance.criterion, MaxImportance, importance.value)
		}
	}

	return &Part{
		ID:               id,
		Name:             name,
		EvaluationMethod: method,
		PriceImportance:  priceImportance,
		TimeImportance:   timeImportance,
		CO2Importance:    co2Importance,
	}, nil
}

// AddProcessStep appends a process step to the part
func (p *Part) AddProcessStep(step PartProcessStep) {
	p.ProcessSteps = append(p.ProcessSteps, step)
}

// OrderedProcessSteps returns the part's steps ordered by manufacturing
// possibility and then by manufacturing sequence number
func (p *Part) OrderedProcessSteps() []*PartProcessStep {
	steps := make([]*PartProcessStep, len(p.ProcessSteps))
	for i := range p.ProcessSteps {
		steps[i] = &p.ProcessSteps[i]
	}
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].ManufacturingPossibility != steps[j].ManufacturingPossibility {
			return steps[i].ManufacturingPossibility < steps[j].ManufacturingPossibility
		}
		return steps[i].ManufacturingSequenceNumber < steps[j].ManufacturingSequenceNumber
	})
	return steps
}

// ManufacturingPossibilities returns the distinct possibility numbers in ascending order
func (p *Part) ManufacturingPossibilities() []int {
	seen := make(map[int]bool)
	var possibilities []int
	for _, step := range p.ProcessSteps {
		if !seen[step.ManufacturingPossibility] {
			seen[step.ManufacturingPossibility] = true
			possibilities = append(possibilities, step.ManufacturingPossibility)
		}
	}
	sort.Ints(possibilities)
	return possibilities
}
