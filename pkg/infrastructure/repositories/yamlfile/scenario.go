package yamlfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/services"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/memory"
)

// Scenario is a catalog together with the parts to create against it
type Scenario struct {
	Catalog *memory.CatalogRepository
	Parts   []*entities.Part
}

// Part returns the scenario part with the given id
func (s *Scenario) Part(id entities.PartID) (*entities.Part, bool) {
	for _, part := range s.Parts {
		if part.ID == id {
			return part, true
		}
	}
	return nil, false
}

type scenarioFile struct {
	Requirements []requirementRecord `yaml:"requirements"`
	ProcessSteps []processStepRecord `yaml:"process_steps"`
	Skills       []skillRecord       `yaml:"skills"`
	Consumables  []consumableRecord  `yaml:"consumables"`
	Resources    []resourceRecord    `yaml:"resources"`
	Parts        []partRecord        `yaml:"parts"`
}

type requirementRecord struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type"`
	Unit     string `yaml:"unit"`
}

type processStepRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Unit string `yaml:"unit"`
}

type skillRecord struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	ProcessStep string `yaml:"process_step"`
}

type consumableRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Unit string `yaml:"unit"`
}

type resourceRecord struct {
	ID     string                `yaml:"id"`
	Name   string                `yaml:"name"`
	Skills []resourceSkillRecord `yaml:"skills"`
}

type resourceSkillRecord struct {
	ID            string                  `yaml:"id"`
	Skill         string                  `yaml:"skill"`
	FixedPrice    float64                 `yaml:"fixed_price"`
	FixedTime     float64                 `yaml:"fixed_time"`
	FixedCO2      float64                 `yaml:"fixed_co2"`
	VariablePrice float64                 `yaml:"variable_price"`
	VariableTime  float64                 `yaml:"variable_time"`
	VariableCO2   float64                 `yaml:"variable_co2"`
	Abilities     []abilityRecord         `yaml:"abilities"`
	Consumables   []skillConsumableRecord `yaml:"consumables"`
}

// Values are kept as written (numbers, booleans or strings) and stored as
// strings, the way they are compared later
type abilityRecord struct {
	Requirement string `yaml:"requirement"`
	Value       any    `yaml:"value"`
}

type skillConsumableRecord struct {
	Consumable       string  `yaml:"consumable"`
	FixedQuantity    float64 `yaml:"fixed_quantity"`
	VariableQuantity float64 `yaml:"variable_quantity"`
	Price            float64 `yaml:"price"`
	CO2              float64 `yaml:"co2"`
}

type partRecord struct {
	ID               string              `yaml:"id"`
	Name             string              `yaml:"name"`
	ModelFile        string              `yaml:"model_file"`
	EvaluationMethod evaluationMethod    `yaml:"evaluation_method"`
	PriceImportance  int                 `yaml:"price_importance"`
	TimeImportance   int                 `yaml:"time_importance"`
	CO2Importance    int                 `yaml:"co2_importance"`
	ProcessSteps     []partProcessRecord `yaml:"process_steps"`
}

type partProcessRecord struct {
	ID                       string             `yaml:"id"`
	ProcessStep              string             `yaml:"process_step"`
	RequiredQuantity         float64            `yaml:"required_quantity"`
	ManufacturingPossibility int                `yaml:"manufacturing_possibility"`
	Sequence                 int                `yaml:"sequence"`
	Constraints              []constraintRecord `yaml:"constraints"`
}

type constraintRecord struct {
	ID          string `yaml:"id"`
	Requirement string `yaml:"requirement"`
	Operator    string `yaml:"operator"`
	Value       any    `yaml:"value"`
	Optional    bool   `yaml:"optional"`
}

// evaluationMethod accepts the method number or one of its names
type evaluationMethod entities.EvaluationMethod

func (m *evaluationMethod) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "field", "fieldevaluation":
		*m = evaluationMethod(entities.FieldEvaluation)
		return nil
	case "weighted", "weightedfieldevaluation":
		*m = evaluationMethod(entities.WeightedFieldEvaluation)
		return nil
	case "critic", "criticevaluation":
		*m = evaluationMethod(entities.CriticEvaluation)
		return nil
	}

	n, err := cast.ToIntE(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: unknown evaluation method %q", value.Line, value.Value)
	}
	*m = evaluationMethod(n)
	return nil
}

// LoadFile reads a scenario file. Relative model file paths are resolved
// against the directory of the scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file %s: %w", path, err)
	}

	scenario, err := Load(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return scenario, nil
}

// Load decodes a scenario. Unknown keys are rejected.
func Load(r io.Reader, baseDir string) (*Scenario, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file scenarioFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenario is empty")
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	catalog, err := buildCatalog(&file)
	if err != nil {
		return nil, err
	}
	// Reference and value errors surface here rather than on the first search
	snapshot, err := catalog.LoadCatalog(context.Background())
	if err != nil {
		return nil, err
	}
	if err := services.NewPartValidator(snapshot).ValidateCatalog(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	parts := make([]*entities.Part, 0, len(file.Parts))
	for _, record := range file.Parts {
		part, err := buildPart(record, baseDir)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	return &Scenario{Catalog: catalog, Parts: parts}, nil
}

func buildCatalog(file *scenarioFile) (*memory.CatalogRepository, error) {
	catalog := memory.NewCatalogRepository()

	for _, record := range file.Requirements {
		requirement, err := entities.NewRequirement(
			entities.RequirementID(record.ID), record.Name, entities.DataType(record.DataType), record.Unit)
		if err != nil {
			return nil, err
		}
		catalog.AddRequirement(*requirement)
	}

	for _, record := range file.ProcessSteps {
		step, err := entities.NewProcessStep(entities.ProcessStepID(record.ID), record.Name, record.Unit)
		if err != nil {
			return nil, err
		}
		catalog.AddProcessStep(*step)
	}

	for _, record := range file.Skills {
		if record.ID == "" {
			return nil, fmt.Errorf("skill id cannot be empty")
		}
		catalog.AddSkill(entities.Skill{
			ID:            entities.SkillID(record.ID),
			Name:          record.Name,
			ProcessStepID: entities.ProcessStepID(record.ProcessStep),
		})
	}

	for _, record := range file.Consumables {
		if record.ID == "" {
			return nil, fmt.Errorf("consumable id cannot be empty")
		}
		catalog.AddConsumable(entities.Consumable{ID: entities.ConsumableID(record.ID), Name: record.Name, Unit: record.Unit})
	}

	for _, record := range file.Resources {
		resource, err := buildResource(record)
		if err != nil {
			return nil, err
		}
		catalog.AddResource(*resource)
	}

	return catalog, nil
}

func buildResource(record resourceRecord) (*entities.Resource, error) {
	if record.ID == "" {
		return nil, fmt.Errorf("resource id cannot be empty")
	}
	resource := &entities.Resource{ID: entities.ResourceID(record.ID), Name: record.Name}

	for _, skillRecord := range record.Skills {
		rs, err := entities.NewResourceSkill(
			entities.ResourceSkillID(skillRecord.ID),
			resource.ID,
			entities.SkillID(skillRecord.Skill),
			entities.Costs{
				FixedPrice:    skillRecord.FixedPrice,
				FixedTime:     skillRecord.FixedTime,
				FixedCO2:      skillRecord.FixedCO2,
				VariablePrice: skillRecord.VariablePrice,
				VariableTime:  skillRecord.VariableTime,
				VariableCO2:   skillRecord.VariableCO2,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", resource.ID, err)
		}

		for _, a := range skillRecord.Abilities {
			value, err := cast.ToStringE(a.Value)
			if err != nil {
				return nil, fmt.Errorf("resource skill %s: ability %s: %w", rs.ID, a.Requirement, err)
			}
			rs.Abilities = append(rs.Abilities, entities.Ability{
				RequirementID: entities.RequirementID(a.Requirement),
				Value:         value,
			})
		}

		for _, c := range skillRecord.Consumables {
			rs.Consumables = append(rs.Consumables, entities.SkillConsumable{
				ConsumableID:     entities.ConsumableID(c.Consumable),
				FixedQuantity:    c.FixedQuantity,
				VariableQuantity: c.VariableQuantity,
				Price:            c.Price,
				CO2:              c.CO2,
			})
		}

		resource.Skills = append(resource.Skills, *rs)
	}

	return resource, nil
}

func buildPart(record partRecord, baseDir string) (*entities.Part, error) {
	part, err := entities.NewPart(
		entities.PartID(record.ID),
		record.Name,
		entities.EvaluationMethod(record.EvaluationMethod),
		record.PriceImportance,
		record.TimeImportance,
		record.CO2Importance,
	)
	if err != nil {
		return nil, err
	}

	part.ModelFile = record.ModelFile
	if part.ModelFile != "" && !filepath.IsAbs(part.ModelFile) {
		part.ModelFile = filepath.Join(baseDir, part.ModelFile)
	}

	for _, stepRecord := range record.ProcessSteps {
		constraints := make([]entities.Constraint, 0, len(stepRecord.Constraints))
		for _, c := range stepRecord.Constraints {
			value, err := cast.ToStringE(c.Value)
			if err != nil {
				return nil, fmt.Errorf("part %s: step %s: constraint %s: %w", part.ID, stepRecord.ID, c.ID, err)
			}
			constraint, err := entities.NewConstraint(
				entities.ConstraintID(c.ID),
				entities.RequirementID(c.Requirement),
				entities.Operator(c.Operator),
				value,
				c.Optional,
			)
			if err != nil {
				return nil, fmt.Errorf("part %s: step %s: %w", part.ID, stepRecord.ID, err)
			}
			constraints = append(constraints, *constraint)
		}

		step, err := entities.NewPartProcessStep(
			entities.PartProcessStepID(stepRecord.ID),
			entities.ProcessStepID(stepRecord.ProcessStep),
			stepRecord.RequiredQuantity,
			stepRecord.ManufacturingPossibility,
			stepRecord.Sequence,
			constraints...,
		)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", part.ID, err)
		}
		part.AddProcessStep(*step)
	}

	return part, nil
}
