package filter

import "fmt"

// Condition represents a single parsed filter condition like "price:>100".
// All its fields are read-only and aren't supposed to change at runtime. For read access, you can
// check the available exported methods.
type Condition struct {
	field string
	op    Operator
	value string
}

// NewCondition creates a new Condition from the given, already trimmed, parts.
// Returns an error if either the field or the value is empty or the operator isn't supported.
func NewCondition(field string, op Operator, value string) (*Condition, error) {
	if field == "" {
		return nil, fmt.Errorf("filter condition without a field")
	}
	if value == "" {
		return nil, fmt.Errorf("filter condition %q without a value", field)
	}
	if !op.Valid() {
		return nil, fmt.Errorf("invalid comparison operator provided: %q", op)
	}

	return &Condition{field: field, op: op, value: value}, nil
}

// Field returns the field of this Condition.
func (c *Condition) Field() string {
	return c.field
}

// Operator returns the comparison operator of this Condition.
func (c *Condition) Operator() Operator {
	return c.op
}

// Value returns the raw value of this Condition.
func (c *Condition) Value() string {
	return c.value
}

// String renders the Condition with blanks around the operator, so that an Equal condition whose value starts
// with an operator rune can't be mistaken for another operator. The result parses back to the same Condition.
func (c *Condition) String() string {
	return c.field + " " + string(c.op) + " " + c.value
}
