package services

import (
	"errors"

	"go.uber.org/zap"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// ConstraintMatcher decides whether the abilities of a resource skill satisfy
// the constraints of a part process step
type ConstraintMatcher struct {
	catalog *entities.Catalog
	logger  *zap.Logger
}

// NewConstraintMatcher creates a matcher resolving requirement data types from the catalog
func NewConstraintMatcher(catalog *entities.Catalog, logger *zap.Logger) *ConstraintMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintMatcher{
		catalog: catalog,
		logger:  logger,
	}
}

// Satisfies reports whether the resource skill fulfills every constraint of the step.
// An optional constraint that is not fulfilled directly is rescued when another
// optional constraint on the same requirement is fulfilled ("plastic OR metal").
func (m *ConstraintMatcher) Satisfies(step *entities.PartProcessStep, rs *entities.ResourceSkill) bool {
	for i, constraint := range step.Constraints {
		if m.Fulfills(constraint, rs) {
			continue
		}
		if !constraint.Optional {
			return false
		}

		rescued := false
		for _, alternative := range step.OptionalAlternatives(i) {
			if m.Fulfills(alternative, rs) {
				rescued = true
				break
			}
		}
		if !rescued {
			return false
		}
	}
	return true
}

// Fulfills reports whether at least one ability of the resource skill satisfies
// the constraint. Conversion and operator errors count as not fulfilled.
func (m *ConstraintMatcher) Fulfills(constraint entities.Constraint, rs *entities.ResourceSkill) bool {
	requirement, ok := m.catalog.Requirement(constraint.RequirementID)
	if !ok {
		m.logger.Warn("constraint references unknown requirement",
			zap.String("constraint_id", string(constraint.ID)),
			zap.String("requirement_id", string(constraint.RequirementID)))
		return false
	}

	for _, ability := range rs.Abilities {
		if ability.RequirementID != constraint.RequirementID {
			continue
		}

		fulfilled, err := m.compare(requirement, ability, constraint)
		if err != nil {
			m.logComparisonError(err, constraint, rs)
			continue
		}
		if fulfilled {
			return true
		}
	}
	return false
}

func (m *ConstraintMatcher) compare(requirement *entities.Requirement, ability entities.Ability, constraint entities.Constraint) (bool, error) {
	abilityValue, err := Coerce(requirement.DataType, ability.Value)
	if err != nil {
		return false, err
	}
	constraintValue, err := Coerce(requirement.DataType, constraint.Value)
	if err != nil {
		return false, err
	}
	return Apply(constraint.Operator, abilityValue, constraintValue)
}

func (m *ConstraintMatcher) logComparisonError(err error, constraint entities.Constraint, rs *entities.ResourceSkill) {
	fields := []zap.Field{
		zap.String("constraint_id", string(constraint.ID)),
		zap.String("resource_skill_id", string(rs.ID)),
		zap.Error(err),
	}

	var opErr *UnknownOperatorError
	if errors.As(err, &opErr) {
		m.logger.Error("could not find a matching operator for constraint", fields...)
		return
	}
	m.logger.Warn("could not compare ability with constraint", fields...)
}
