package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
)

// CatalogRepository holds the master data in memory and hands out the same
// immutable snapshot until the data changes
type CatalogRepository struct {
	requirements []entities.Requirement
	processSteps []entities.ProcessStep
	skills       []entities.Skill
	resources    []entities.Resource
	consumables  []entities.Consumable

	snapshot *entities.Catalog
	mutex    sync.RWMutex
}

// NewCatalogRepository creates an empty in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// AddRequirement adds a requirement definition
func (r *CatalogRepository) AddRequirement(requirement entities.Requirement) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.requirements = append(r.requirements, requirement)
	r.snapshot = nil
}

// AddProcessStep adds a process step definition
func (r *CatalogRepository) AddProcessStep(step entities.ProcessStep) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.processSteps = append(r.processSteps, step)
	r.snapshot = nil
}

// AddSkill adds a skill definition
func (r *CatalogRepository) AddSkill(skill entities.Skill) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.skills = append(r.skills, skill)
	r.snapshot = nil
}

// AddResource adds a resource with its resource skills
func (r *CatalogRepository) AddResource(resource entities.Resource) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.resources = append(r.resources, resource)
	r.snapshot = nil
}

// AddConsumable adds a consumable definition
func (r *CatalogRepository) AddConsumable(consumable entities.Consumable) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.consumables = append(r.consumables, consumable)
	r.snapshot = nil
}

// LoadCatalog builds (or reuses) a validated catalog snapshot
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (*entities.Catalog, error) {
	r.mutex.RLock()
	snapshot := r.snapshot
	r.mutex.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.snapshot != nil {
		return r.snapshot, nil
	}

	catalog, err := entities.NewCatalog(
		append([]entities.Requirement(nil), r.requirements...),
		append([]entities.ProcessStep(nil), r.processSteps...),
		append([]entities.Skill(nil), r.skills...),
		cloneResources(r.resources),
		append([]entities.Consumable(nil), r.consumables...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	r.snapshot = catalog
	return catalog, nil
}

func cloneResources(resources []entities.Resource) []entities.Resource {
	out := make([]entities.Resource, len(resources))
	for i, resource := range resources {
		skills := make([]entities.ResourceSkill, len(resource.Skills))
		for j, rs := range resource.Skills {
			rs.Abilities = append([]entities.Ability(nil), rs.Abilities...)
			rs.Consumables = append([]entities.SkillConsumable(nil), rs.Consumables...)
			skills[j] = rs
		}
		resource.Skills = skills
		out[i] = resource
	}
	return out
}
