package entities

import (
	"errors"
	"fmt"
)

// Catalog is an immutable snapshot of the master data a search run reads:
// requirements, process steps, skills, resources and consumables.
// Resources and consumables keep their load order; lookups go through maps.
type Catalog struct {
	requirements []Requirement
	processSteps []ProcessStep
	skills       []Skill
	resources    []Resource
	consumables  []Consumable

	requirementIndex   map[RequirementID]int
	processStepIndex   map[ProcessStepID]int
	skillIndex         map[SkillID]int
	consumableIndex    map[ConsumableID]int
	resourceSkillIndex map[ResourceSkillID][2]int
}

// NewCatalog builds a catalog and validates that every reference resolves
func NewCatalog(
	requirements []Requirement,
	processSteps []ProcessStep,
	skills []Skill,
	resources []Resource,
	consumables []Consumable,
) (*Catalog, error) {
	c := &Catalog{
		requirements:       requirements,
		processSteps:       processSteps,
		skills:             skills,
		resources:          resources,
		consumables:        consumables,
		requirementIndex:   make(map[RequirementID]int, len(requirements)),
		processStepIndex:   make(map[ProcessStepID]int, len(processSteps)),
		skillIndex:         make(map[SkillID]int, len(skills)),
		consumableIndex:    make(map[ConsumableID]int, len(consumables)),
		resourceSkillIndex: make(map[ResourceSkillID][2]int),
	}

	var errs []error
	for i, r := range requirements {
		if _, exists := c.requirementIndex[r.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate requirement: %s", r.ID))
		}
		c.requirementIndex[r.ID] = i
	}
	for i, ps := range processSteps {
		if _, exists := c.processStepIndex[ps.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate process step: %s", ps.ID))
		}
		c.processStepIndex[ps.ID] = i
	}
	for i, s := range skills {
		if _, exists := c.skillIndex[s.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate skill: %s", s.ID))
		}
		if _, ok := c.processStepIndex[s.ProcessStepID]; !ok {
			errs = append(errs, fmt.Errorf("skill %s: unknown process step %s", s.ID, s.ProcessStepID))
		}
		c.skillIndex[s.ID] = i
	}
	for i, cons := range consumables {
		if _, exists := c.consumableIndex[cons.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate consumable: %s", cons.ID))
		}
		c.consumableIndex[cons.ID] = i
	}
	for i, resource := range resources {
		for j, rs := range resource.Skills {
			if _, exists := c.resourceSkillIndex[rs.ID]; exists {
				errs = append(errs, fmt.Errorf("duplicate resource skill: %s", rs.ID))
			}
			c.resourceSkillIndex[rs.ID] = [2]int{i, j}
			if _, ok := c.skillIndex[rs.SkillID]; !ok {
				errs = append(errs, fmt.Errorf("resource skill %s: unknown skill %s", rs.ID, rs.SkillID))
			}
			for _, ability := range rs.Abilities {
				if _, ok := c.requirementIndex[ability.RequirementID]; !ok {
					errs = append(errs, fmt.Errorf("resource skill %s: ability references unknown requirement %s", rs.ID, ability.RequirementID))
				}
			}
			for _, sc := range rs.Consumables {
				if _, ok := c.consumableIndex[sc.ConsumableID]; !ok {
					errs = append(errs, fmt.Errorf("resource skill %s: unknown consumable %s", rs.ID, sc.ConsumableID))
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// Requirement returns the requirement with the given id
func (c *Catalog) Requirement(id RequirementID) (*Requirement, bool) {
	i, ok := c.requirementIndex[id]
	if !ok {
		return nil, false
	}
	return &c.requirements[i], true
}

// ProcessStep returns the process step with the given id
func (c *Catalog) ProcessStep(id ProcessStepID) (*ProcessStep, bool) {
	i, ok := c.processStepIndex[id]
	if !ok {
		return nil, false
	}
	return &c.processSteps[i], true
}

// Skill returns the skill with the given id
func (c *Catalog) Skill(id SkillID) (*Skill, bool) {
	i, ok := c.skillIndex[id]
	if !ok {
		return nil, false
	}
	return &c.skills[i], true
}

// Consumable returns the consumable with the given id
func (c *Catalog) Consumable(id ConsumableID) (*Consumable, bool) {
	i, ok := c.consumableIndex[id]
	if !ok {
		return nil, false
	}
	return &c.consumables[i], true
}

// ResourceSkill returns the resource skill with the given id
func (c *Catalog) ResourceSkill(id ResourceSkillID) (*ResourceSkill, bool) {
	pos, ok := c.resourceSkillIndex[id]
	if !ok {
		return nil, false
	}
	return &c.resources[pos[0]].Skills[pos[1]], true
}

// Resource returns the resource with the given id
func (c *Catalog) Resource(id ResourceID) (*Resource, bool) {
	for i := range c.resources {
		if c.resources[i].ID == id {
			return &c.resources[i], true
		}
	}
	return nil, false
}

// Requirements returns all requirements in load order
func (c *Catalog) Requirements() []Requirement { return c.requirements }

// ProcessSteps returns all process steps in load order
func (c *Catalog) ProcessSteps() []ProcessStep { return c.processSteps }

// Skills returns all skills in load order
func (c *Catalog) Skills() []Skill { return c.skills }

// Resources returns all resources in load order
func (c *Catalog) Resources() []Resource { return c.resources }

// Consumables returns all consumables in load order
func (c *Catalog) Consumables() []Consumable { return c.consumables }
