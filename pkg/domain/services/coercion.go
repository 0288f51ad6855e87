package services

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// Value is a requirement value converted to its declared data type
type Value struct {
	dataType entities.DataType
	i        int64
	f        float64
	s        string
	b        bool
}

// DataType returns the data type the value was converted to
func (v Value) DataType() entities.DataType {
	return v.dataType
}

// String returns the value formatted for logging
func (v Value) String() string {
	switch v.dataType {
	case entities.DataTypeInt:
		return fmt.Sprintf("%d", v.i)
	case entities.DataTypeFloat:
		return fmt.Sprintf("%g", v.f)
	case entities.DataTypeBool:
		return fmt.Sprintf("%t", v.b)
	default:
		return v.s
	}
}

// parseInt reads decimal integers, leading zeros included, and accepts the "3.0" form
func parseInt(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}

	// cast parses with base 0, so a leading zero would switch to octal
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	digits := strings.TrimLeft(s, "0")
	if digits == "" || strings.HasPrefix(digits, ".") {
		digits = "0" + digits
	}
	return cast.ToInt64E(sign + digits)
}

// Coerce converts a string-encoded value to the given data type
func Coerce(dataType entities.DataType, raw string) (Value, error) {
	v := Value{dataType: dataType}
	var err error

	switch dataType {
	case entities.DataTypeInt:
		v.i, err = parseInt(raw)
	case entities.DataTypeFloat:
		v.f, err = cast.ToFloat64E(strings.TrimSpace(raw))
	case entities.DataTypeBool:
		v.b, err = cast.ToBoolE(strings.TrimSpace(raw))
	case entities.DataTypeStr:
		v.s = raw
	default:
		err = fmt.Errorf("unsupported data type")
	}

	if err != nil {
		return Value{}, &TypeConversionError{DataType: dataType, Value: raw, Err: err}
	}
	return v, nil
}

// Compare orders v against other: -1 if v < other, 0 if equal, 1 if v > other.
// Numbers compare numerically, strings lexicographically and false < true.
func (v Value) Compare(other Value) (int, error) {
	if v.dataType != other.dataType {
		return 0, fmt.Errorf("cannot compare %s with %s", v.dataType, other.dataType)
	}

	switch v.dataType {
	case entities.DataTypeInt:
		return cmp.Compare(v.i, other.i), nil
	case entities.DataTypeFloat:
		return cmp.Compare(v.f, other.f), nil
	case entities.DataTypeBool:
		switch {
		case v.b == other.b:
			return 0, nil
		case other.b:
			return -1, nil
		default:
			return 1, nil
		}
	case entities.DataTypeStr:
		return strings.Compare(v.s, other.s), nil
	default:
		return 0, errors.New("unsupported data type")
	}
}

// Apply evaluates "v operator other", e.g. ability >= constraint
func Apply(operator entities.Operator, v, other Value) (bool, error) {
	c, err := v.Compare(other)
	if err != nil {
		return false, err
	}

	switch operator {
	case entities.OpEqual:
		return c == 0, nil
	case entities.OpNotEqual:
		return c != 0, nil
	case entities.OpLess:
		return c < 0, nil
	case entities.OpGreater:
		return c > 0, nil
	case entities.OpLessOrEqual:
		return c <= 0, nil
	case entities.OpGreaterOrEqual:
		return c >= 0, nil
	default:
		return false, &UnknownOperatorError{Operator: operator}
	}
}
