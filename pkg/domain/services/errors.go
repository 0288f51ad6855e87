package services

import (
	"fmt"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// TypeConversionError reports a value that cannot be converted to the data type
// declared by its requirement
type TypeConversionError struct {
	DataType entities.DataType
	Value    string
	Err      error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to data type %s: %v", e.Value, e.DataType, e.Err)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

// UnknownOperatorError reports a constraint operator outside the supported set
type UnknownOperatorError struct {
	Operator entities.Operator
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q", string(e.Operator))
}
