package search

import (
	"go.uber.org/zap"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/services"
)

// Resolver finds the candidate resource skills for every process step of a part
type Resolver struct {
	catalog *entities.Catalog
	matcher *services.ConstraintMatcher
	logger  *zap.Logger
}

// NewResolver creates a resolver over a catalog snapshot
func NewResolver(catalog *entities.Catalog, matcher *services.ConstraintMatcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		catalog: catalog,
		matcher: matcher,
		logger:  logger,
	}
}

// Resolve returns the part's manufacturing possibilities in ascending order, each
// with its steps in sequence order and their candidates in catalog order
func (r *Resolver) Resolve(part *entities.Part) []dto.ManufacturingPossibility {
	var possibilities []dto.ManufacturingPossibility
	index := make(map[int]int)

	for _, step := range part.OrderedProcessSteps() {
		i, exists := index[step.ManufacturingPossibility]
		if !exists {
			i = len(possibilities)
			index[step.ManufacturingPossibility] = i
			possibilities = append(possibilities, dto.ManufacturingPossibility{Number: step.ManufacturingPossibility})
		}

		candidates := r.Candidates(step)
		r.logger.Debug("resolved step candidates",
			zap.String("part_id", string(part.ID)),
			zap.String("step_id", string(step.ID)),
			zap.Int("candidates", len(candidates)))

		possibilities[i].Steps = append(possibilities[i].Steps, dto.StepCandidates{
			Step:       step,
			Candidates: candidates,
		})
	}

	return possibilities
}

// Candidates returns every resource skill whose skill performs the step's process
// step and whose abilities satisfy the step's constraints
func (r *Resolver) Candidates(step *entities.PartProcessStep) []entities.ResourceSkillID {
	candidates := make([]entities.ResourceSkillID, 0)
	for _, resource := range r.catalog.Resources() {
		for i := range resource.Skills {
			rs := &resource.Skills[i]
			skill, ok := r.catalog.Skill(rs.SkillID)
			if !ok || skill.ProcessStepID != step.ProcessStepID {
				continue
			}
			if r.matcher.Satisfies(step, rs) {
				candidates = append(candidates, rs.ID)
			}
		}
	}
	return candidates
}
