package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter is matched by every error caused by a malformed or unsupported filter expression.
// All of them are client errors, so retrying the same input can't succeed.
var ErrInvalidFilter = errors.New("invalid filter")

// UnknownFieldError is returned when composing a condition on a field that isn't declared in the field table.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown filter field %q", e.Field)
}

// Is implements the interface used by errors.Is.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// InvalidOperatorError is returned when a condition uses an operator that isn't supported by the family of its field.
type InvalidOperatorError struct {
	Field    string
	Operator Operator
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("operator %q (%s) is not supported for filter field %q", e.Operator, e.Operator.Name(), e.Field)
}

// Is implements the interface used by errors.Is.
func (e *InvalidOperatorError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// NumberFormatError is returned when a condition value can't be converted to the numeric type of its field.
type NumberFormatError struct {
	Field string
	Value string
	Err   error
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("invalid numeric value %q for filter field %q: %s", e.Value, e.Field, e.Err)
}

// Unwrap returns the conversion error.
func (e *NumberFormatError) Unwrap() error {
	return e.Err
}

// Is implements the interface used by errors.Is.
func (e *NumberFormatError) Is(target error) bool {
	return target == ErrInvalidFilter
}
