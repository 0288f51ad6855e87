package yamlfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

const bracketScenario = `
requirements:
  - {id: MATERIAL, name: material, data_type: str}
  - {id: MAX_DIAMETER, name: max diameter, data_type: float, unit: mm}
process_steps:
  - {id: MILLING, name: Milling, unit: pcs}
  - {id: DRILLING, name: Drilling, unit: pcs}
skills:
  - {id: MILL, name: Mill, process_step: MILLING}
  - {id: DRILL, name: Drill, process_step: DRILLING}
consumables:
  - {id: POWER, name: Electricity, unit: kWh}
resources:
  - id: CNC_1
    name: CNC machining center
    skills:
      - id: CNC_1_MILL
        skill: MILL
        fixed_price: 10
        variable_price: 1
        fixed_co2: -2
        abilities:
          - {requirement: MATERIAL, value: steel}
        consumables:
          - {consumable: POWER, variable_quantity: 0.5, price: 0.3, co2: 0.2}
      - id: CNC_1_DRILL
        skill: DRILL
        fixed_price: 2
        abilities:
          - {requirement: MAX_DIAMETER, value: 8}
parts:
  - id: BRACKET
    name: Bracket
    model_file: bracket.stl
    evaluation_method: weighted
    price_importance: 3
    time_importance: 2
    co2_importance: 1
    process_steps:
      - id: S1
        process_step: MILLING
        required_quantity: 10
        manufacturing_possibility: 1
        sequence: 1
        constraints:
          - {id: C1, requirement: MATERIAL, operator: "=", value: steel}
      - id: S2
        process_step: DRILLING
        required_quantity: 4
        manufacturing_possibility: 1
        sequence: 2
        constraints:
          - {id: C2, requirement: MAX_DIAMETER, operator: ">=", value: 6.5}
  - id: PLATE
    name: Plate
    evaluation_method: 3
    process_steps:
      - {id: S1, process_step: MILLING, manufacturing_possibility: 1, sequence: 1}
`

func TestLoad(t *testing.T) {
	scenario, err := Load(strings.NewReader(bracketScenario), "/data")
	require.NoError(t, err)

	catalog, err := scenario.Catalog.LoadCatalog(context.Background())
	require.NoError(t, err)

	rs, ok := catalog.ResourceSkill("CNC_1_MILL")
	require.True(t, ok)
	assert.Equal(t, entities.ResourceID("CNC_1"), rs.ResourceID)
	assert.Equal(t, 10.0, rs.FixedPrice)
	assert.Equal(t, -2.0, rs.FixedCO2)
	assert.Equal(t, []entities.SkillConsumable{
		{ConsumableID: "POWER", VariableQuantity: 0.5, Price: 0.3, CO2: 0.2},
	}, rs.Consumables)

	drill, ok := catalog.ResourceSkill("CNC_1_DRILL")
	require.True(t, ok)
	assert.Equal(t, "8", drill.Abilities[0].Value, "numeric values are kept as strings")

	require.Len(t, scenario.Parts, 2)

	bracket, ok := scenario.Part("BRACKET")
	require.True(t, ok)
	assert.Equal(t, entities.WeightedFieldEvaluation, bracket.EvaluationMethod)
	assert.Equal(t, filepath.Join("/data", "bracket.stl"), bracket.ModelFile)
	assert.Equal(t, 3, bracket.PriceImportance)
	require.Len(t, bracket.ProcessSteps, 2)
	assert.Equal(t, 4.0, bracket.ProcessSteps[1].RequiredQuantity)
	assert.Equal(t, entities.Constraint{
		ID: "C2", RequirementID: "MAX_DIAMETER", Operator: entities.OpGreaterOrEqual, Value: "6.5",
	}, bracket.ProcessSteps[1].Constraints[0])

	plate, ok := scenario.Part("PLATE")
	require.True(t, ok)
	assert.Equal(t, entities.CriticEvaluation, plate.EvaluationMethod)
	assert.Empty(t, plate.ModelFile)

	_, ok = scenario.Part("MISSING")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bracketScenario), 0o644))

	scenario, err := LoadFile(path)
	require.NoError(t, err)

	bracket, ok := scenario.Part("BRACKET")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "bracket.stl"), bracket.ModelFile)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open scenario file")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		wantErr  string
	}{
		{
			name:     "empty",
			scenario: "",
			wantErr:  "scenario is empty",
		},
		{
			name:     "unknown key",
			scenario: "resources:\n  - id: R1\n    colour: red\n",
			wantErr:  "field colour not found",
		},
		{
			name:     "unsupported data type",
			scenario: "requirements:\n  - {id: R, name: r, data_type: date}\n",
			wantErr:  `unsupported data type "date"`,
		},
		{
			name:     "unknown skill reference",
			scenario: "resources:\n  - id: R1\n    skills:\n      - {id: RS1, skill: MILL}\n",
			wantErr:  "resource skill RS1: unknown skill MILL",
		},
		{
			name:     "negative price",
			scenario: "resources:\n  - id: R1\n    skills:\n      - {id: RS1, skill: MILL, fixed_price: -1}\n",
			wantErr:  "prices cannot be negative",
		},
		{
			name: "ability not convertible",
			scenario: "requirements:\n  - {id: MAX_DIAMETER, name: d, data_type: float}\n" +
				"process_steps:\n  - {id: DRILLING, name: Drilling}\n" +
				"skills:\n  - {id: DRILL, name: Drill, process_step: DRILLING}\n" +
				"resources:\n  - id: R1\n    skills:\n      - id: RS1\n        skill: DRILL\n" +
				"        abilities:\n          - {requirement: MAX_DIAMETER, value: wide}\n",
			wantErr: "invalid catalog: resource skill RS1: ability:",
		},
		{
			name:     "process step without name",
			scenario: "process_steps:\n  - {id: DRILLING}\n",
			wantErr:  "process step DRILLING: name cannot be empty",
		},
		{
			name:     "unknown evaluation method",
			scenario: "parts:\n  - {id: P, evaluation_method: best}\n",
			wantErr:  `unknown evaluation method "best"`,
		},
		{
			name:     "evaluation method out of range",
			scenario: "parts:\n  - {id: P, evaluation_method: 4}\n",
			wantErr:  "evaluation method must be between 1 and 3, got 4",
		},
		{
			name: "unknown operator",
			scenario: "parts:\n  - id: P\n    evaluation_method: field\n    process_steps:\n" +
				"      - id: S1\n        process_step: MILLING\n        manufacturing_possibility: 1\n" +
				"        constraints:\n          - {id: C1, requirement: MATERIAL, operator: '~', value: steel}\n",
			wantErr: `part P: step S1: constraint C1: unknown operator "~"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.scenario), ".")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_Example(t *testing.T) {
	scenario, err := LoadFile(filepath.Join("..", "..", "..", "..", "example", "bracket.yaml"))
	require.NoError(t, err)
	require.Len(t, scenario.Parts, 2)

	catalog, err := scenario.Catalog.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Resources(), 5)

	laser, ok := catalog.ResourceSkill("L_DRILL")
	require.True(t, ok)
	assert.Equal(t, "true", laser.Abilities[1].Value)

	bracket, ok := scenario.Part("BRACKET")
	require.True(t, ok)
	assert.FileExists(t, bracket.ModelFile)
	assert.Len(t, bracket.ProcessSteps, 5)
}
