package entities

import (
	"strings"
	"testing"
)

func buildTestCatalogParts() ([]Requirement, []ProcessStep, []Skill, []Resource, []Consumable) {
	requirements := []Requirement{{ID: "MATERIAL", Name: "material", DataType: DataTypeStr}}
	processSteps := []ProcessStep{{ID: "MILLING", Name: "Milling", Unit: "mm3"}}
	skills := []Skill{{ID: "MILL", Name: "Mill", ProcessStepID: "MILLING"}}
	consumables := []Consumable{{ID: "POWER", Name: "Electricity", Unit: "kWh"}}
	resources := []Resource{
		{
			ID:   "CNC_1",
			Name: "CNC mill",
			Skills: []ResourceSkill{
				{
					ID:          "CNC_1_MILL",
					ResourceID:  "CNC_1",
					SkillID:     "MILL",
					Abilities:   []Ability{{RequirementID: "MATERIAL", Value: "steel"}},
					Consumables: []SkillConsumable{{ConsumableID: "POWER", FixedQuantity: 1}},
				},
			},
		},
	}
	return requirements, processSteps, skills, resources, consumables
}

func TestNewCatalog_Lookups(t *testing.T) {
	catalog, err := NewCatalog(buildTestCatalogParts())
	if err != nil {
		t.Fatalf("Expected valid catalog: %v", err)
	}

	rs, ok := catalog.ResourceSkill("CNC_1_MILL")
	if !ok {
		t.Fatal("Expected to find resource skill CNC_1_MILL")
	}
	if len(rs.Consumables) != 1 || rs.Consumables[0].ConsumableID != "POWER" {
		t.Errorf("Expected CNC_1_MILL to use POWER, got %v", rs.Consumables)
	}

	if _, ok := catalog.Skill("MILL"); !ok {
		t.Error("Expected to find skill MILL")
	}
	if _, ok := catalog.Requirement("COLOR"); ok {
		t.Error("Did not expect to find requirement COLOR")
	}
	if _, ok := catalog.Resource("CNC_1"); !ok {
		t.Error("Expected to find resource CNC_1")
	}
}

func TestNewCatalog_BrokenReferences(t *testing.T) {
	requirements, processSteps, skills, resources, consumables := buildTestCatalogParts()
	skills = append(skills, Skill{ID: "DRILL", Name: "Drill", ProcessStepID: "DRILLING"})
	resources[0].Skills[0].Abilities = append(resources[0].Skills[0].Abilities, Ability{RequirementID: "COLOR", Value: "red"})
	resources[0].Skills[0].Consumables = append(resources[0].Skills[0].Consumables, SkillConsumable{ConsumableID: "GAS"})

	_, err := NewCatalog(requirements, processSteps, skills, resources, consumables)
	if err == nil {
		t.Fatal("Expected error for broken references")
	}

	for _, fragment := range []string{
		"skill DRILL: unknown process step DRILLING",
		"ability references unknown requirement COLOR",
		"unknown consumable GAS",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Expected error to contain %q, got: %v", fragment, err)
		}
	}
}

func TestNewCatalog_Duplicates(t *testing.T) {
	requirements, processSteps, skills, resources, consumables := buildTestCatalogParts()
	consumables = append(consumables, consumables[0])

	_, err := NewCatalog(requirements, processSteps, skills, resources, consumables)
	if err == nil {
		t.Fatal("Expected error for duplicate consumable")
	}
	if !strings.Contains(err.Error(), "duplicate consumable: POWER") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestSolutionSpace_RankedPermutations(t *testing.T) {
	space := NewSolutionSpace("P", WeightedFieldEvaluation)
	for _, rank := range []int{3, 1, 2, 1} {
		p := NewPermutation(space.ID, 1)
		p.Rank = rank
		space.Permutations = append(space.Permutations, p)
	}

	ordered := space.RankedPermutations()
	expected := []int{1, 1, 2, 3}
	for i, rank := range expected {
		if ordered[i].Rank != rank {
			t.Errorf("Position %d: expected rank %d, got %d", i, rank, ordered[i].Rank)
		}
	}
	if ordered[0] != space.Permutations[1] {
		t.Error("Expected ties to keep creation order")
	}

	if space.Best() != nil {
		t.Error("Expected no best permutation before ranking")
	}
	space.Ranked = true
	if len(space.Best()) != 2 {
		t.Errorf("Expected 2 best permutations, got %d", len(space.Best()))
	}
}
