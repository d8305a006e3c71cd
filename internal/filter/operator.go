package filter

// Operator is a type used for grouping the individual comparison operators of a filter string.
type Operator string

// List of the supported comparison operators.
const (
	Equal          Operator = ":"
	GreaterOrEqual Operator = ":>"
	LessOrEqual    Operator = ":<"
	GreaterThan    Operator = ">"
	LessThan       Operator = "<"
	Like           Operator = "~"
)

// operators lists all operator tokens in the order they must be tried while lexing a segment.
// ":" is a prefix of both ":>" and ":<", so the two-rune tokens have to come first.
var operators = []Operator{GreaterOrEqual, LessOrEqual, Equal, GreaterThan, LessThan, Like}

// operatorNames maps each operator to the name used in API responses.
var operatorNames = map[Operator]string{
	Equal:          "EQ",
	GreaterOrEqual: "GE",
	LessOrEqual:    "LE",
	GreaterThan:    "GT",
	LessThan:       "LT",
	Like:           "LIKE",
}

// Name returns the symbolic name of this operator, e.g. "GE" for ":>".
func (o Operator) Name() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}

	return "UNKNOWN"
}

// Valid returns true if o is one of the supported comparison operators.
func (o Operator) Valid() bool {
	_, ok := operatorNames[o]
	return ok
}

func (o Operator) String() string {
	return string(o)
}
