package filter

// Predicate is implemented by every composed filter rule and every single field comparison.
//
// A Predicate can be evaluated in memory against a record of type R or be rendered to a SQL
// boolean expression using "?" bind vars, which the store rebinds for its driver.
type Predicate[R any] interface {
	// Matches returns true if the given record satisfies this Predicate.
	Matches(record R) bool

	// Where renders this Predicate to a SQL boolean expression and its bind arguments.
	Where() (string, []any)
}

// Family is implemented by every comparison family a filterable field can be declared with.
type Family[R any] interface {
	// Build creates a Predicate comparing the given field against the raw value using op.
	// Returns an *InvalidOperatorError if op isn't supported by this family or a
	// *NumberFormatError if the value can't be coerced to the family's value type.
	Build(field string, op Operator, value string) (Predicate[R], error)

	// Operators returns all the operators supported by this family.
	Operators() []Operator
}
