package entities

import "fmt"

// RequirementID identifies a requirement
type RequirementID string

// ProcessStepID identifies a generic manufacturing operation type
type ProcessStepID string

// DataType is the declared semantic type of requirement values
type DataType string

const (
	DataTypeInt   DataType = "int"
	DataTypeFloat DataType = "float"
	DataTypeStr   DataType = "str"
	DataTypeBool  DataType = "bool"
)

// IsValid reports whether d is one of the supported data types
func (d DataType) IsValid() bool {
	switch d {
	case DataTypeInt, DataTypeFloat, DataTypeStr, DataTypeBool:
		return true
	default:
		return false
	}
}

// Requirement is an abstract named property (e.g. "material") that constraints
// demand and abilities fulfill
type Requirement struct {
	ID       RequirementID
	Name     string
	DataType DataType
	Unit     string
}

// NewRequirement creates a validated Requirement
func NewRequirement(id RequirementID, name string, dataType DataType, unit string) (*Requirement, error) {
	if id == "" {
		return nil, fmt.Errorf("requirement id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("requirement %s: name cannot be empty", id)
	}
	if !dataType.IsValid() {
		return nil, fmt.Errorf("requirement %s: unsupported data type %q", id, dataType)
	}

	return &Requirement{ID: id, Name: name, DataType: dataType, Unit: unit}, nil
}

// ProcessStep is a generic manufacturing operation type such as "Milling"
type ProcessStep struct {
	ID   ProcessStepID
	Name string
	Unit string
}

// NewProcessStep creates a validated ProcessStep
func NewProcessStep(id ProcessStepID, name, unit string) (*ProcessStep, error) {
	if id == "" {
		return nil, fmt.Errorf("process step id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("process step %s: name cannot be empty", id)
	}

	return &ProcessStep{ID: id, Name: name, Unit: unit}, nil
}
