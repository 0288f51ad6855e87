package testing

import (
	"fmt"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/memory"
)

// mustCreatePart is a helper for tests - panics on validation error
func mustCreatePart(
	id, name string,
	method entities.EvaluationMethod,
	price, time, co2 int,
	steps ...entities.PartProcessStep,
) *entities.Part {
	part, err := entities.NewPart(entities.PartID(id), name, method, price, time, co2)
	if err != nil {
		panic(err)
	}
	for _, step := range steps {
		part.AddProcessStep(step)
	}
	return part
}

// mustCreateStep is a helper for tests - panics on validation error
func mustCreateStep(
	id, processStep string,
	quantity float64,
	possibility, sequence int,
	constraints ...entities.Constraint,
) entities.PartProcessStep {
	step, err := entities.NewPartProcessStep(
		entities.PartProcessStepID(id),
		entities.ProcessStepID(processStep),
		quantity,
		possibility,
		sequence,
		constraints...,
	)
	if err != nil {
		panic(err)
	}
	return *step
}

// mustCreateConstraint is a helper for tests - panics on validation error
func mustCreateConstraint(id, requirement string, op entities.Operator, value string, optional bool) entities.Constraint {
	constraint, err := entities.NewConstraint(
		entities.ConstraintID(id),
		entities.RequirementID(requirement),
		op,
		value,
		optional,
	)
	if err != nil {
		panic(err)
	}
	return *constraint
}

// mustCreateResourceSkill is a helper for tests - panics on validation error
func mustCreateResourceSkill(
	id, resource, skill string,
	costs entities.Costs,
	abilities []entities.Ability,
	consumables ...entities.SkillConsumable,
) entities.ResourceSkill {
	rs, err := entities.NewResourceSkill(
		entities.ResourceSkillID(id),
		entities.ResourceID(resource),
		entities.SkillID(skill),
		costs,
	)
	if err != nil {
		panic(err)
	}
	rs.Abilities = abilities
	rs.Consumables = consumables
	return *rs
}

func ability(requirement, value string) entities.Ability {
	return entities.Ability{RequirementID: entities.RequirementID(requirement), Value: value}
}

// BuildMillingScenario builds the single-step milling scenario: only RS1 accepts
// steel, so exactly one permutation with price 5 + 10*2 = 25 exists
func BuildMillingScenario() (*memory.CatalogRepository, *entities.Part) {
	catalog := memory.NewCatalogRepository()
	catalog.AddRequirement(entities.Requirement{ID: "MATERIAL", Name: "material", DataType: entities.DataTypeStr})
	catalog.AddProcessStep(entities.ProcessStep{ID: "MILLING", Name: "Milling", Unit: "pcs"})
	catalog.AddSkill(entities.Skill{ID: "MILL", Name: "Mill", ProcessStepID: "MILLING"})
	catalog.AddConsumable(entities.Consumable{ID: "POWER", Name: "Electricity", Unit: "kWh"})

	catalog.AddResource(entities.Resource{
		ID:   "R1",
		Name: "Steel mill",
		Skills: []entities.ResourceSkill{
			mustCreateResourceSkill("RS1", "R1", "MILL",
				entities.Costs{FixedPrice: 5, VariablePrice: 2},
				[]entities.Ability{ability("MATERIAL", "steel")}),
		},
	})
	catalog.AddResource(entities.Resource{
		ID:   "R2",
		Name: "Plastic mill",
		Skills: []entities.ResourceSkill{
			mustCreateResourceSkill("RS2", "R2", "MILL",
				entities.Costs{FixedPrice: 0, VariablePrice: 1},
				[]entities.Ability{ability("MATERIAL", "plastic")}),
		},
	})

	part := mustCreatePart("P", "Milled plate", entities.CriticEvaluation, 1, 1, 1,
		mustCreateStep("S", "MILLING", 10, 1, 1,
			mustCreateConstraint("C1", "MATERIAL", entities.OpEqual, "steel", false)),
	)

	return catalog, part
}

// BuildBracketScenario builds a part with three manufacturing possibilities:
//
//	1: milling (2 candidates) then drilling (3 candidates) -> 6 permutations
//	2: welding steel, which no resource can do -> discarded
//	3: milling aluminium or titanium (optional alternatives) -> 1 permutation
func BuildBracketScenario(method entities.EvaluationMethod) (*memory.CatalogRepository, *entities.Part) {
	catalog := memory.NewCatalogRepository()
	catalog.AddRequirement(entities.Requirement{ID: "MATERIAL", Name: "material", DataType: entities.DataTypeStr})
	catalog.AddRequirement(entities.Requirement{ID: "MAX_DIAMETER", Name: "max diameter", DataType: entities.DataTypeFloat, Unit: "mm"})
	catalog.AddRequirement(entities.Requirement{ID: "PRECISE", Name: "precision drilling", DataType: entities.DataTypeBool})

	for _, ps := range []string{"MILLING", "DRILLING", "WELDING"} {
		catalog.AddProcessStep(entities.ProcessStep{ID: entities.ProcessStepID(ps), Name: ps, Unit: "pcs"})
	}
	catalog.AddSkill(entities.Skill{ID: "MILL", Name: "Mill", ProcessStepID: "MILLING"})
	catalog.AddSkill(entities.Skill{ID: "DRILL", Name: "Drill", ProcessStepID: "DRILLING"})
	catalog.AddSkill(entities.Skill{ID: "WELD", Name: "Weld", ProcessStepID: "WELDING"})

	catalog.AddConsumable(entities.Consumable{ID: "POWER", Name: "Electricity", Unit: "kWh"})
	catalog.AddConsumable(entities.Consumable{ID: "COOLANT", Name: "Coolant", Unit: "l"})

	catalog.AddResource(entities.Resource{
		ID:   "CNC_1",
		Name: "CNC machining center",
		Skills: []entities.ResourceSkill{
			mustCreateResourceSkill("CNC_1_MILL", "CNC_1", "MILL",
				entities.Costs{FixedPrice: 10, VariablePrice: 1, FixedTime: 5, VariableTime: 0.5, FixedCO2: 1, VariableCO2: 0.2},
				[]entities.Ability{ability("MATERIAL", "steel")},
				entities.SkillConsumable{ConsumableID: "POWER", FixedQuantity: 1, VariableQuantity: 0.5, Price: 0.3, CO2: 0.4},
				entities.SkillConsumable{ConsumableID: "POWER", FixedQuantity: 1, Price: 0.3, CO2: 0.4},
			),
			mustCreateResourceSkill("CNC_1_DRILL", "CNC_1", "DRILL",
				entities.Costs{FixedPrice: 2, VariablePrice: 0.5},
				[]entities.Ability{ability("MAX_DIAMETER", "12")},
				entities.SkillConsumable{ConsumableID: "COOLANT", VariableQuantity: 0.1, Price: 2},
			),
		},
	})
	catalog.AddResource(entities.Resource{
		ID:   "CNC_2",
		Name: "Solar powered mill",
		Skills: []entities.ResourceSkill{
			mustCreateResourceSkill("CNC_2_MILL", "CNC_2", "MILL",
				entities.Costs{VariablePrice: 3, VariableTime: 0.2, FixedCO2: -2},
				[]entities.Ability{ability("MATERIAL", "aluminium"), ability("MATERIAL", "steel")},
			),
		},
	})
	catalog.AddResource(entities.Resource{
		ID:   "DRILL_PRESS",
		Name: "Drill press",
		Skills: []entities.ResourceSkill{
			mustCreateResourceSkill("DP_DRILL", "DRILL_PRESS", "DRILL",
				entities.Costs{FixedPrice: 1, VariablePrice: 0.2, VariableTime: 2},
				[]entities.Ability{ability("MAX_DIAMETER", "8"), ability("PRECISE", "false")},
			),
		},
	})
	catalog.AddResource(entities.Resource{
		ID:   "LASER",
		Name: "Laser cutter",
		Skills: []entities.ResourceSkill{
			mustCreateResourceSkill("L_DRILL", "LASER", "DRILL",
				entities.Costs{FixedPrice: 20, FixedTime: 1, FixedCO2: 4},
				[]entities.Ability{ability("MAX_DIAMETER", "20"), ability("PRECISE", "true")},
			),
		},
	})
	catalog.AddResource(entities.Resource{
		ID:   "WELDER",
		Name: "Welding robot",
		Skills: []entities.ResourceSkill{
			mustCreateResourceSkill("W_WELD", "WELDER", "WELD",
				entities.Costs{FixedPrice: 8},
				[]entities.Ability{ability("MATERIAL", "aluminium")},
			),
		},
	})

	part := mustCreatePart("BRACKET", "Mounting bracket", method, 3, 2, 1,
		mustCreateStep("S1", "MILLING", 10, 1, 1,
			mustCreateConstraint("C1", "MATERIAL", entities.OpEqual, "steel", false)),
		mustCreateStep("S2", "DRILLING", 4, 1, 2,
			mustCreateConstraint("C2", "MAX_DIAMETER", entities.OpGreaterOrEqual, "6", false)),
		mustCreateStep("S3", "WELDING", 1, 2, 1,
			mustCreateConstraint("C3", "MATERIAL", entities.OpEqual, "steel", false)),
		mustCreateStep("S4", "MILLING", 1, 2, 2),
		mustCreateStep("S5", "MILLING", 2, 3, 1,
			mustCreateConstraint("C5A", "MATERIAL", entities.OpEqual, "aluminium", true),
			mustCreateConstraint("C5B", "MATERIAL", entities.OpEqual, "titanium", true)),
	)

	return catalog, part
}

// BuildLargeScenario builds a part with one possibility of steps steps, each
// performable by candidates resource skills, i.e. candidates^steps permutations
func BuildLargeScenario(steps, candidates int) (*memory.CatalogRepository, *entities.Part) {
	catalog := memory.NewCatalogRepository()
	catalog.AddRequirement(entities.Requirement{ID: "TOLERANCE", Name: "tolerance", DataType: entities.DataTypeFloat, Unit: "mm"})
	catalog.AddConsumable(entities.Consumable{ID: "POWER", Name: "Electricity", Unit: "kWh"})

	part := mustCreatePart("LARGE", "Large part", entities.CriticEvaluation, 5, 3, 1)

	for s := 0; s < steps; s++ {
		processStep := fmt.Sprintf("PS_%d", s)
		skill := fmt.Sprintf("SK_%d", s)
		catalog.AddProcessStep(entities.ProcessStep{ID: entities.ProcessStepID(processStep), Name: processStep})
		catalog.AddSkill(entities.Skill{ID: entities.SkillID(skill), ProcessStepID: entities.ProcessStepID(processStep)})

		part.AddProcessStep(mustCreateStep(fmt.Sprintf("STEP_%d", s), processStep, float64(s+1), 1, s+1,
			mustCreateConstraint(fmt.Sprintf("C_%d", s), "TOLERANCE", entities.OpLessOrEqual, "0.5", false)))
	}

	for c := 0; c < candidates; c++ {
		resourceID := fmt.Sprintf("R_%d", c)
		resource := entities.Resource{ID: entities.ResourceID(resourceID), Name: resourceID}
		for s := 0; s < steps; s++ {
			resource.Skills = append(resource.Skills, mustCreateResourceSkill(
				fmt.Sprintf("R_%d_SK_%d", c, s), resourceID, fmt.Sprintf("SK_%d", s),
				entities.Costs{
					FixedPrice:    float64(c + s),
					VariablePrice: float64(c%3) + 0.5,
					FixedTime:     float64((c * 7) % 5),
					VariableTime:  0.25,
					VariableCO2:   float64(c%4) * 0.1,
				},
				[]entities.Ability{ability("TOLERANCE", fmt.Sprintf("%.2f", 0.1+float64(c%4)*0.1))},
				entities.SkillConsumable{ConsumableID: "POWER", VariableQuantity: 0.2, Price: 0.3, CO2: 0.5},
			))
		}
		catalog.AddResource(resource)
	}

	return catalog, part
}
