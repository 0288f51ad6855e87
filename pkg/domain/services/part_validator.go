package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// PartValidator checks parts and resource skills at data-entry time, so that the
// search can assume every value converts to its requirement's data type
type PartValidator struct {
	catalog *entities.Catalog
}

// NewPartValidator creates a validator resolving references against the catalog
func NewPartValidator(catalog *entities.Catalog) *PartValidator {
	return &PartValidator{catalog: catalog}
}

// ValidatePart returns all problems found in the part joined into one error
func (v *PartValidator) ValidatePart(part *entities.Part) error {
	var errs []error

	if part.ID == "" {
		errs = append(errs, fmt.Errorf("part id cannot be empty"))
	}
	if !part.EvaluationMethod.IsValid() {
		errs = append(errs, fmt.Errorf("evaluation method must be between %d and %d, got %d",
			entities.FieldEvaluation, entities.CriticEvaluation, part.EvaluationMethod))
	}
	errs = append(errs, validateImportance("price", part.PriceImportance)...)
	errs = append(errs, validateImportance("time", part.TimeImportance)...)
	errs = append(errs, validateImportance("co2", part.CO2Importance)...)

	sequences := make(map[[2]int]entities.PartProcessStepID)
	stepIDs := make(map[entities.PartProcessStepID]bool, len(part.ProcessSteps))
	for i := range part.ProcessSteps {
		step := &part.ProcessSteps[i]

		switch {
		case step.ID == "":
			errs = append(errs, fmt.Errorf("step %d: id cannot be empty", i+1))
		case stepIDs[step.ID]:
			errs = append(errs, fmt.Errorf("step %s: duplicate step id", step.ID))
		}
		stepIDs[step.ID] = true

		key := [2]int{step.ManufacturingPossibility, step.ManufacturingSequenceNumber}
		if other, exists := sequences[key]; exists {
			errs = append(errs, fmt.Errorf("steps %s and %s share sequence number %d in manufacturing possibility %d",
				other, step.ID, step.ManufacturingSequenceNumber, step.ManufacturingPossibility))
		}
		sequences[key] = step.ID

		errs = append(errs, v.validateStep(step)...)
	}

	return errors.Join(errs...)
}

func (v *PartValidator) validateStep(step *entities.PartProcessStep) []error {
	var errs []error

	if _, ok := v.catalog.ProcessStep(step.ProcessStepID); !ok {
		errs = append(errs, fmt.Errorf("step %s: unknown process step %s", step.ID, step.ProcessStepID))
	}
	if step.RequiredQuantity < 0 {
		errs = append(errs, fmt.Errorf("step %s: required quantity cannot be negative, got %g", step.ID, step.RequiredQuantity))
	}
	if step.ManufacturingPossibility <= 0 {
		errs = append(errs, fmt.Errorf("step %s: manufacturing possibility must be positive, got %d", step.ID, step.ManufacturingPossibility))
	}

	constraintIDs := make(map[entities.ConstraintID]bool, len(step.Constraints))
	for i, constraint := range step.Constraints {
		switch {
		case constraint.ID == "":
			errs = append(errs, fmt.Errorf("step %s: constraint %d: id cannot be empty", step.ID, i+1))
		case constraintIDs[constraint.ID]:
			errs = append(errs, fmt.Errorf("step %s: constraint %s: duplicate constraint id", step.ID, constraint.ID))
		}
		constraintIDs[constraint.ID] = true

		if !constraint.Operator.IsValid() {
			errs = append(errs, fmt.Errorf("step %s: constraint %s: %w", step.ID, constraint.ID, &UnknownOperatorError{Operator: constraint.Operator}))
		}
		if err := v.validateValue(constraint.RequirementID, constraint.Value); err != nil {
			errs = append(errs, fmt.Errorf("step %s: constraint %s: %w", step.ID, constraint.ID, err))
		}
	}

	return errs
}

// ValidateResourceSkill checks ability values and non-negative prices, times and
// consumable quantities. CO2 values may be negative.
func (v *PartValidator) ValidateResourceSkill(rs *entities.ResourceSkill) error {
	var errs []error

	if _, ok := v.catalog.Skill(rs.SkillID); !ok {
		errs = append(errs, fmt.Errorf("resource skill %s: unknown skill %s", rs.ID, rs.SkillID))
	}
	if rs.FixedPrice < 0 || rs.VariablePrice < 0 {
		errs = append(errs, fmt.Errorf("resource skill %s: prices cannot be negative", rs.ID))
	}
	if rs.FixedTime < 0 || rs.VariableTime < 0 {
		errs = append(errs, fmt.Errorf("resource skill %s: times cannot be negative", rs.ID))
	}
	for _, ability := range rs.Abilities {
		if err := v.validateValue(ability.RequirementID, ability.Value); err != nil {
			errs = append(errs, fmt.Errorf("resource skill %s: ability: %w", rs.ID, err))
		}
	}
	for _, sc := range rs.Consumables {
		if sc.FixedQuantity < 0 || sc.VariableQuantity < 0 || sc.Price < 0 {
			errs = append(errs, fmt.Errorf("resource skill %s: consumable %s: quantities and price cannot be negative", rs.ID, sc.ConsumableID))
		}
	}

	return errors.Join(errs...)
}

// ValidateCatalog checks every resource skill of the catalog
func (v *PartValidator) ValidateCatalog() error {
	var errs []error
	for _, resource := range v.catalog.Resources() {
		for i := range resource.Skills {
			if err := v.ValidateResourceSkill(&resource.Skills[i]); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (v *PartValidator) validateValue(requirementID entities.RequirementID, value string) error {
	requirement, ok := v.catalog.Requirement(requirementID)
	if !ok {
		return fmt.Errorf("unknown requirement %s", requirementID)
	}
	_, err := Coerce(requirement.DataType, value)
	return err
}

// ModelFileExtensions lists the accepted 3D model file extensions
var ModelFileExtensions = []string{".stl", ".obj", ".off", ".ply", ".3mf", ".xaml", ".3dxml", ".gltf"}

// ValidateModelFile checks the extension of an uploaded 3D model file
func ValidateModelFile(name string) error {
	ext := filepath.Ext(name)
	for _, allowed := range ModelFileExtensions {
		if strings.ToLower(ext) == allowed {
			return nil
		}
	}
	return fmt.Errorf("unsupported file extension %q, expected one of %s", ext, strings.Join(ModelFileExtensions, ", "))
}

func validateImportance(criterion string, importance int) []error {
	if importance < 0 || importance > entities.MaxImportance {
		return []error{fmt.Errorf("%s importance must be between 0 and %d, got %d", criterion, entities.MaxImportance, importance)}
	}
	return nil
}
