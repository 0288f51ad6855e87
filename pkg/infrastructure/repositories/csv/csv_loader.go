package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/services"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/memory"
)

// Catalog tables of a master data directory. Abilities and consumables are optional.
const (
	RequirementsFile     = "requirements.csv"
	ProcessStepsFile     = "process_steps.csv"
	SkillsFile           = "skills.csv"
	ConsumablesFile      = "consumables.csv"
	ResourcesFile        = "resources.csv"
	ResourceSkillsFile   = "resource_skills.csv"
	AbilitiesFile        = "abilities.csv"
	SkillConsumablesFile = "skill_consumables.csv"
)

var (
	requirementsHeader     = []string{"id", "name", "data_type", "unit"}
	processStepsHeader     = []string{"id", "name", "unit"}
	skillsHeader           = []string{"id", "name", "process_step_id"}
	consumablesHeader      = []string{"id", "name", "unit"}
	resourcesHeader        = []string{"id", "name"}
	resourceSkillsHeader   = []string{"id", "resource_id", "skill_id", "fixed_price", "fixed_time", "fixed_co2", "variable_price", "variable_time", "variable_co2"}
	abilitiesHeader        = []string{"resource_skill_id", "requirement_id", "value"}
	skillConsumablesHeader = []string{"resource_skill_id", "consumable_id", "fixed_quantity", "variable_quantity", "price", "co2"}
)

// Loader handles loading catalog master data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadCatalog loads all catalog tables of dir into a new catalog repository
func (l *Loader) LoadCatalog(dir string) (*memory.CatalogRepository, error) {
	catalog := memory.NewCatalogRepository()

	requirements, err := l.LoadRequirements(filepath.Join(dir, RequirementsFile))
	if err != nil {
		return nil, err
	}
	for _, r := range requirements {
		catalog.AddRequirement(*r)
	}

	records, err := readTable(filepath.Join(dir, ProcessStepsFile), "process steps", processStepsHeader, true)
	if err != nil {
		return nil, err
	}
	for i, record := range records {
		step, err := entities.NewProcessStep(entities.ProcessStepID(record[0]), record[1], record[2])
		if err != nil {
			return nil, fmt.Errorf("process steps CSV row %d: %w", i+2, err)
		}
		catalog.AddProcessStep(*step)
	}

	records, err = readTable(filepath.Join(dir, SkillsFile), "skills", skillsHeader, true)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		catalog.AddSkill(entities.Skill{ID: entities.SkillID(record[0]), Name: record[1], ProcessStepID: entities.ProcessStepID(record[2])})
	}

	records, err = readTable(filepath.Join(dir, ConsumablesFile), "consumables", consumablesHeader, false)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		catalog.AddConsumable(entities.Consumable{ID: entities.ConsumableID(record[0]), Name: record[1], Unit: record[2]})
	}

	resources, err := l.LoadResources(dir)
	if err != nil {
		return nil, err
	}
	for _, resource := range resources {
		catalog.AddResource(*resource)
	}

	snapshot, err := catalog.LoadCatalog(context.Background())
	if err != nil {
		return nil, err
	}
	if err := services.NewPartValidator(snapshot).ValidateCatalog(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return catalog, nil
}

// LoadRequirements loads requirements from a CSV file
func (l *Loader) LoadRequirements(filename string) ([]*entities.Requirement, error) {
	records, err := readTable(filename, "requirements", requirementsHeader, true)
	if err != nil {
		return nil, err
	}

	var requirements []*entities.Requirement
	for i, record := range records {
		requirement, err := entities.NewRequirement(
			entities.RequirementID(record[0]), record[1], entities.DataType(record[2]), record[3])
		if err != nil {
			return nil, fmt.Errorf("requirements CSV row %d: %w", i+2, err)
		}
		requirements = append(requirements, requirement)
	}
	return requirements, nil
}

// LoadResources loads resources with their skills, abilities and consumables
// from the resource tables of dir
func (l *Loader) LoadResources(dir string) ([]*entities.Resource, error) {
	records, err := readTable(filepath.Join(dir, ResourcesFile), "resources", resourcesHeader, true)
	if err != nil {
		return nil, err
	}

	var resources []*entities.Resource
	resourceIndex := make(map[entities.ResourceID]*entities.Resource)
	for i, record := range records {
		id := entities.ResourceID(record[0])
		if id == "" {
			return nil, fmt.Errorf("resources CSV row %d: resource id cannot be empty", i+2)
		}
		if _, exists := resourceIndex[id]; exists {
			return nil, fmt.Errorf("resources CSV row %d: duplicate resource %s", i+2, id)
		}
		resource := &entities.Resource{ID: id, Name: record[1]}
		resources = append(resources, resource)
		resourceIndex[id] = resource
	}

	skills, err := loadResourceSkills(dir)
	if err != nil {
		return nil, err
	}
	for _, rs := range skills {
		resource, ok := resourceIndex[rs.ResourceID]
		if !ok {
			return nil, fmt.Errorf("resource skill %s: unknown resource %s", rs.ID, rs.ResourceID)
		}
		resource.Skills = append(resource.Skills, *rs)
	}

	return resources, nil
}

// loadResourceSkills loads the resource skills and attaches their abilities and
// consumables, keeping file order
func loadResourceSkills(dir string) ([]*entities.ResourceSkill, error) {
	records, err := readTable(filepath.Join(dir, ResourceSkillsFile), "resource skills", resourceSkillsHeader, true)
	if err != nil {
		return nil, err
	}

	var skills []*entities.ResourceSkill
	skillIndex := make(map[entities.ResourceSkillID]*entities.ResourceSkill)
	for i, record := range records {
		values, err := parseFloats(record[3:])
		if err != nil {
			return nil, fmt.Errorf("resource skills CSV row %d: %w", i+2, err)
		}
		rs, err := entities.NewResourceSkill(
			entities.ResourceSkillID(record[0]),
			entities.ResourceID(record[1]),
			entities.SkillID(record[2]),
			entities.Costs{
				FixedPrice:    values[0],
				FixedTime:     values[1],
				FixedCO2:      values[2],
				VariablePrice: values[3],
				VariableTime:  values[4],
				VariableCO2:   values[5],
			},
		)
		if err != nil {
			return nil, fmt.Errorf("resource skills CSV row %d: %w", i+2, err)
		}
		skills = append(skills, rs)
		skillIndex[rs.ID] = rs
	}

	records, err = readTable(filepath.Join(dir, AbilitiesFile), "abilities", abilitiesHeader, false)
	if err != nil {
		return nil, err
	}
	for i, record := range records {
		rs, ok := skillIndex[entities.ResourceSkillID(record[0])]
		if !ok {
			return nil, fmt.Errorf("abilities CSV row %d: unknown resource skill %s", i+2, record[0])
		}
		rs.Abilities = append(rs.Abilities, entities.Ability{RequirementID: entities.RequirementID(record[1]), Value: record[2]})
	}

	records, err = readTable(filepath.Join(dir, SkillConsumablesFile), "skill consumables", skillConsumablesHeader, false)
	if err != nil {
		return nil, err
	}
	for i, record := range records {
		rs, ok := skillIndex[entities.ResourceSkillID(record[0])]
		if !ok {
			return nil, fmt.Errorf("skill consumables CSV row %d: unknown resource skill %s", i+2, record[0])
		}
		values, err := parseFloats(record[2:])
		if err != nil {
			return nil, fmt.Errorf("skill consumables CSV row %d: %w", i+2, err)
		}
		rs.Consumables = append(rs.Consumables, entities.SkillConsumable{
			ConsumableID:     entities.ConsumableID(record[1]),
			FixedQuantity:    values[0],
			VariableQuantity: values[1],
			Price:            values[2],
			CO2:              values[3],
		})
	}

	return skills, nil
}

// readTable reads a CSV file and returns its data rows after checking the header.
// A missing optional file has no rows.
func readTable(filename, table string, expectedHeader []string, required bool) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s file %s: %w", table, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", table, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header", table)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", table, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", table, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

// parseFloats parses numeric columns, an empty column is 0
func parseFloats(columns []string) ([]float64, error) {
	values := make([]float64, len(columns))
	for i, column := range columns {
		if column == "" {
			continue
		}
		v, err := strconv.ParseFloat(column, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", column)
		}
		values[i] = v
	}
	return values, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if actual[i] != col {
			return false
		}
	}
	return true
}
