package entities

import "fmt"

// ResourceID identifies a machine or service provider
type ResourceID string

// SkillID identifies a skill
type SkillID string

// ResourceSkillID identifies a resource's instance of a skill
type ResourceSkillID string

// ConsumableID identifies a consumable
type ConsumableID string

// Skill is a capability tied to a process step
type Skill struct {
	ID            SkillID
	Name          string
	ProcessStepID ProcessStepID
}

// Ability is a resource skill's fulfillment value for a requirement
type Ability struct {
	RequirementID RequirementID
	Value         string
}

// Consumable is a resource consumed while a skill is executed (e.g. electricity)
type Consumable struct {
	ID   ConsumableID
	Name string
	Unit string
}

// SkillConsumable is a resource skill's usage of a consumable. Price and CO2 are
// per unit of the consumable; the variable quantity is per unit of required quantity.
type SkillConsumable struct {
	ConsumableID     ConsumableID
	FixedQuantity    float64
	VariableQuantity float64
	Price            float64
	CO2              float64
}

// Costs holds a fixed and a per-unit value for price, time and CO2-eq.
type Costs struct {
	FixedPrice    float64
	FixedTime     float64
	FixedCO2      float64
	VariablePrice float64
	VariableTime  float64
	VariableCO2   float64
}

// ResourceSkill is a resource's priced, ability-bearing instance of a skill
type ResourceSkill struct {
	ID         ResourceSkillID
	ResourceID ResourceID
	SkillID    SkillID
	Costs
	Abilities   []Ability
	Consumables []SkillConsumable
}

// NewResourceSkill creates a validated ResourceSkill. CO2 values may be negative.
func NewResourceSkill(id ResourceSkillID, resourceID ResourceID, skillID SkillID, costs Costs) (*ResourceSkill, error) {
	if id == "" {
		return nil, fmt.Errorf("resource skill id cannot be empty")
	}
	if resourceID == "" {
		return nil, fmt.Errorf("resource skill %s: resource cannot be empty", id)
	}
	if skillID == "" {
		return nil, fmt.Errorf("resource skill %s: skill cannot be empty", id)
	}
	if costs.FixedPrice < 0 || costs.VariablePrice < 0 {
		return nil, fmt.Errorf("resource skill %s: prices cannot be negative", id)
	}
	if costs.FixedTime < 0 || costs.VariableTime < 0 {
		return nil, fmt.Errorf("resource skill %s: times cannot be negative", id)
	}

	return &ResourceSkill{
		ID:         id,
		ResourceID: resourceID,
		SkillID:    skillID,
		Costs:      costs,
	}, nil
}

// Resource is a machine or service provider owning resource skills
type Resource struct {
	ID     ResourceID
	Name   string
	Skills []ResourceSkill
}
