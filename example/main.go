package main

import (
	"context"
	"fmt"

	"github.com/vsinha/plafosus/pkg/application/services/search"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Create repositories
	catalogRepo := memory.NewCatalogRepository()
	solutionRepo := memory.NewSolutionRepository()

	// Set up a small job shop
	setupJobShop(catalogRepo)

	part, err := gearboxHousing()
	if err != nil {
		fmt.Printf("❌ Invalid part: %v\n", err)
		return
	}

	fmt.Printf("🔧 Searching solutions for %s...\n", part.Name)
	fmt.Printf("Importance: price %d, time %d, co2 %d (%s)\n",
		part.PriceImportance, part.TimeImportance, part.CO2Importance, part.EvaluationMethod)
	fmt.Println()

	service := search.NewService(search.DefaultConfig(), catalogRepo, solutionRepo, nil, nil)
	result, err := service.SearchSolution(ctx, part)
	if err != nil {
		fmt.Printf("❌ Search failed: %v\n", err)
		return
	}

	fmt.Println("📊 Search Results:")
	fmt.Printf("  Manufacturing Possibilities: %d (%d discarded)\n",
		result.Stats.PossibilitiesTotal, result.Stats.PossibilitiesDiscarded)
	fmt.Printf("  Permutations: %d\n", result.Stats.Permutations)
	fmt.Printf("  Solutions: %d\n", result.Stats.Solutions)
	fmt.Println()

	fmt.Println("🏆 Ranked Permutations:")
	for _, p := range result.Space.RankedPermutations() {
		comparison := "-"
		if p.ComparisonValue != nil {
			comparison = fmt.Sprintf("%.3f", *p.ComparisonValue)
		}
		fmt.Printf("  #%d (possibility %d, score %s): price %.2f | time %.1f | co2 %.2f\n",
			p.Rank, p.ManufacturingPossibility, comparison, p.Price, p.Time, p.CO2)
		for _, sol := range p.Solutions {
			fmt.Printf("    %d. %s on %s\n", sol.ManufacturingSequenceNumber, sol.PartProcessStepID, sol.ResourceSkillID)
		}
		for _, cc := range p.Consumables {
			if cc.Quantity > 0 {
				fmt.Printf("    uses %.2f %s\n", cc.Quantity, cc.ConsumableID)
			}
		}
	}
	fmt.Println()

	fmt.Println("✅ Solution search complete!")
}

func setupJobShop(catalogRepo *memory.CatalogRepository) {
	catalogRepo.AddRequirement(entities.Requirement{ID: "MATERIAL", Name: "Material", DataType: entities.DataTypeStr})
	catalogRepo.AddRequirement(entities.Requirement{ID: "TOLERANCE", Name: "Tolerance", DataType: entities.DataTypeFloat, Unit: "mm"})

	catalogRepo.AddProcessStep(entities.ProcessStep{ID: "CASTING", Name: "Casting", Unit: "kg"})
	catalogRepo.AddProcessStep(entities.ProcessStep{ID: "MILLING", Name: "Milling", Unit: "min"})
	catalogRepo.AddProcessStep(entities.ProcessStep{ID: "PRINTING", Name: "3D printing", Unit: "cm3"})

	catalogRepo.AddSkill(entities.Skill{ID: "SAND_CAST", Name: "Sand casting", ProcessStepID: "CASTING"})
	catalogRepo.AddSkill(entities.Skill{ID: "MILL_5AX", Name: "5-axis milling", ProcessStepID: "MILLING"})
	catalogRepo.AddSkill(entities.Skill{ID: "SLM", Name: "Selective laser melting", ProcessStepID: "PRINTING"})

	catalogRepo.AddConsumable(entities.Consumable{ID: "POWER", Name: "Electricity", Unit: "kWh"})
	catalogRepo.AddConsumable(entities.Consumable{ID: "ARGON", Name: "Argon", Unit: "l"})

	catalogRepo.AddResource(entities.Resource{
		ID:   "FOUNDRY",
		Name: "Foundry",
		Skills: []entities.ResourceSkill{{
			ID: "FOUNDRY_CAST", ResourceID: "FOUNDRY", SkillID: "SAND_CAST",
			Costs:     entities.Costs{FixedPrice: 120, VariablePrice: 4, FixedTime: 480, VariableTime: 2, VariableCO2: 3.5},
			Abilities: []entities.Ability{{RequirementID: "MATERIAL", Value: "aluminium"}, {RequirementID: "MATERIAL", Value: "cast iron"}},
			Consumables: []entities.SkillConsumable{
				{ConsumableID: "POWER", VariableQuantity: 1.2, Price: 0.3, CO2: 0.4},
			},
		}},
	})

	catalogRepo.AddResource(entities.Resource{
		ID:   "DMU_50",
		Name: "DMU 50 machining center",
		Skills: []entities.ResourceSkill{{
			ID: "DMU_50_MILL", ResourceID: "DMU_50", SkillID: "MILL_5AX",
			Costs:     entities.Costs{FixedPrice: 40, VariablePrice: 1.5, FixedTime: 30, VariableTime: 1, VariableCO2: 0.1},
			Abilities: []entities.Ability{{RequirementID: "TOLERANCE", Value: "0.01"}},
			Consumables: []entities.SkillConsumable{
				{ConsumableID: "POWER", FixedQuantity: 2, VariableQuantity: 0.2, Price: 0.3, CO2: 0.4},
			},
		}},
	})

	catalogRepo.AddResource(entities.Resource{
		ID:   "SHOP_MILL",
		Name: "Manual shop mill",
		Skills: []entities.ResourceSkill{{
			ID: "SHOP_MILL", ResourceID: "SHOP_MILL", SkillID: "MILL_5AX",
			Costs:     entities.Costs{FixedPrice: 10, VariablePrice: 0.8, FixedTime: 60, VariableTime: 2.5, VariableCO2: 0.05},
			Abilities: []entities.Ability{{RequirementID: "TOLERANCE", Value: "0.05"}},
		}},
	})

	catalogRepo.AddResource(entities.Resource{
		ID:   "EOS_M290",
		Name: "EOS M 290",
		Skills: []entities.ResourceSkill{{
			ID: "EOS_SLM", ResourceID: "EOS_M290", SkillID: "SLM",
			Costs:     entities.Costs{FixedPrice: 60, VariablePrice: 2.4, FixedTime: 120, VariableTime: 3, VariableCO2: 0.9},
			Abilities: []entities.Ability{{RequirementID: "MATERIAL", Value: "aluminium"}, {RequirementID: "TOLERANCE", Value: "0.1"}},
			Consumables: []entities.SkillConsumable{
				{ConsumableID: "ARGON", FixedQuantity: 50, VariableQuantity: 2, Price: 0.02},
				{ConsumableID: "POWER", VariableQuantity: 0.8, Price: 0.3, CO2: 0.4},
			},
		}},
	})
}

// gearboxHousing can either be cast and finish-milled or printed in one piece
func gearboxHousing() (*entities.Part, error) {
	part, err := entities.NewPart("GEARBOX_HOUSING", "Gearbox housing", entities.CriticEvaluation, 5, 3, 2)
	if err != nil {
		return nil, err
	}

	material, err := entities.NewConstraint("MAT", "MATERIAL", entities.OpEqual, "aluminium", false)
	if err != nil {
		return nil, err
	}
	tolerance, err := entities.NewConstraint("TOL", "TOLERANCE", entities.OpLessOrEqual, "0.05", false)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		id          entities.PartProcessStepID
		processStep entities.ProcessStepID
		quantity    float64
		possibility int
		sequence    int
		constraints []entities.Constraint
	}{
		{"CAST", "CASTING", 3.2, 1, 1, []entities.Constraint{*material}},
		{"FINISH", "MILLING", 45, 1, 2, []entities.Constraint{*tolerance}},
		{"PRINT", "PRINTING", 1200, 2, 1, []entities.Constraint{*material}},
	}
	for _, s := range steps {
		step, err := entities.NewPartProcessStep(s.id, s.processStep, s.quantity, s.possibility, s.sequence, s.constraints...)
		if err != nil {
			return nil, err
		}
		part.AddProcessStep(*step)
	}

	return part, nil
}
