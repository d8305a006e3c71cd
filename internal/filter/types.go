package filter

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// All is a Predicate that matches when all of its rules match.
// An All without any rules matches every record.
type All[R any] struct {
	rules []Predicate[R]
}

// NewAll creates a new All chain of the given rules.
func NewAll[R any](rules ...Predicate[R]) *All[R] {
	return &All[R]{rules: rules}
}

// Add appends the given rule to this chain.
func (a *All[R]) Add(rule Predicate[R]) {
	a.rules = append(a.rules, rule)
}

// Rules returns the rules of this chain.
func (a *All[R]) Rules() []Predicate[R] {
	return a.rules
}

// Matches implements the Predicate interface.
func (a *All[R]) Matches(record R) bool {
	for _, rule := range a.rules {
		if !rule.Matches(record) {
			return false
		}
	}

	return true
}

// Where implements the Predicate interface.
func (a *All[R]) Where() (string, []any) {
	if len(a.rules) == 0 {
		return "1 = 1", nil
	}

	clauses := make([]string, 0, len(a.rules))
	var args []any
	for _, rule := range a.rules {
		clause, ruleArgs := rule.Where()
		clauses = append(clauses, "("+clause+")")
		args = append(args, ruleArgs...)
	}

	return strings.Join(clauses, " AND "), args
}

// Range is the comparison family of fields with an ordered value type like prices or sizes.
// It supports the operators Equal, GreaterThan, LessThan, GreaterOrEqual and LessOrEqual.
type Range[R, T any] struct {
	// Column is the database column of this field.
	Column string
	// Get extracts the field value from a record.
	Get func(R) T
	// Parse converts a raw condition value to the field's value type.
	Parse func(string) (T, error)
	// Compare returns a negative number if a < b, zero if a == b and a positive number if a > b.
	Compare func(a, b T) int
}

// NewRange creates a Range family for value types with a built-in order like float64 or int64.
func NewRange[R any, T cmp.Ordered](column string, get func(R) T, parse func(string) (T, error)) *Range[R, T] {
	return &Range[R, T]{Column: column, Get: get, Parse: parse, Compare: cmp.Compare[T]}
}

// errNotFinite is returned by ParseFloat for NaN and infinite values, which have no SQL counterpart.
var errNotFinite = errors.New("value is not a finite number")

// ParseFloat parses a finite float64 condition value.
func ParseFloat(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}

	return f, nil
}

// Build implements the Family interface.
func (r *Range[R, T]) Build(field string, op Operator, value string) (Predicate[R], error) {
	if _, ok := rangeSQLOperators[op]; !ok {
		return nil, &InvalidOperatorError{Field: field, Operator: op}
	}

	v, err := r.Parse(value)
	if err != nil {
		return nil, &NumberFormatError{Field: field, Value: value, Err: err}
	}

	return &Comparison[R, T]{family: r, op: op, value: v}, nil
}

// Operators implements the Family interface.
func (r *Range[R, T]) Operators() []Operator {
	return []Operator{Equal, GreaterThan, LessThan, GreaterOrEqual, LessOrEqual}
}

// rangeSQLOperators maps the operators supported by the Range family to their SQL counterpart.
var rangeSQLOperators = map[Operator]string{
	Equal:          "=",
	GreaterThan:    ">",
	LessThan:       "<",
	GreaterOrEqual: ">=",
	LessOrEqual:    "<=",
}

// Comparison is a Predicate comparing a Range field against a fixed value.
type Comparison[R, T any] struct {
	family *Range[R, T]
	op     Operator
	value  T
}

// Value returns the already converted comparison value.
func (c *Comparison[R, T]) Value() T {
	return c.value
}

// Matches implements the Predicate interface.
func (c *Comparison[R, T]) Matches(record R) bool {
	res := c.family.Compare(c.family.Get(record), c.value)

	switch c.op {
	case Equal:
		return res == 0
	case GreaterThan:
		return res > 0
	case LessThan:
		return res < 0
	case GreaterOrEqual:
		return res >= 0
	case LessOrEqual:
		return res <= 0
	default:
		return false
	}
}

// Where implements the Predicate interface.
func (c *Comparison[R, T]) Where() (string, []any) {
	return fmt.Sprintf("%s %s ?", quoteColumn(c.family.Column), rangeSQLOperators[c.op]), []any{c.value}
}

// StringEqual is the comparison family of text fields that only support a case-insensitive exact match.
type StringEqual[R any] struct {
	// Column is the database column of this field.
	Column string
	// Get extracts the field value from a record.
	Get func(R) string
}

// Build implements the Family interface.
func (s *StringEqual[R]) Build(field string, op Operator, value string) (Predicate[R], error) {
	if op != Equal {
		return nil, &InvalidOperatorError{Field: field, Operator: op}
	}

	return &EqualFold[R]{family: s, value: strings.ToLower(value)}, nil
}

// Operators implements the Family interface.
func (s *StringEqual[R]) Operators() []Operator {
	return []Operator{Equal}
}

// EqualFold is a Predicate matching a StringEqual field case-insensitively against a fixed value.
type EqualFold[R any] struct {
	family *StringEqual[R]
	value  string
}

// Matches implements the Predicate interface.
func (e *EqualFold[R]) Matches(record R) bool {
	return strings.ToLower(e.family.Get(record)) == e.value
}

// Where implements the Predicate interface.
func (e *EqualFold[R]) Where() (string, []any) {
	return fmt.Sprintf("LOWER(%s) = ?", quoteColumn(e.family.Column)), []any{e.value}
}

// Contains is the substring family used for the free-text search term.
// It isn't a Family, as it can't be selected by a filter condition.
type Contains[R any] struct {
	// Column is the database column of this field.
	Column string
	// Get extracts the field value from a record.
	Get func(R) string
}

// Build creates a Predicate matching all records whose field contains the given term, ignoring case.
func (c *Contains[R]) Build(term string) Predicate[R] {
	return &Substring[R]{family: c, term: strings.ToLower(term)}
}

// Substring is a Predicate matching a Contains field case-insensitively against a search term.
type Substring[R any] struct {
	family *Contains[R]
	term   string
}

// Matches implements the Predicate interface.
func (s *Substring[R]) Matches(record R) bool {
	return strings.Contains(strings.ToLower(s.family.Get(record)), s.term)
}

// Where implements the Predicate interface.
func (s *Substring[R]) Where() (string, []any) {
	return fmt.Sprintf("LOWER(%s) LIKE ?", quoteColumn(s.family.Column)), []any{"%" + likeEscaper.Replace(s.term) + "%"}
}

// likeEscaper escapes all LIKE wildcards using the backslash, which is the default escape character of both
// MySQL and PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// quoteColumn quotes the given column name the same way the database layer does when building statements.
func quoteColumn(column string) string {
	return `"` + strings.ReplaceAll(column, `"`, `""`) + `"`
}

// Assert interface compliance.
var (
	_ Predicate[any] = (*All[any])(nil)
	_ Predicate[any] = (*Comparison[any, float64])(nil)
	_ Predicate[any] = (*EqualFold[any])(nil)
	_ Predicate[any] = (*Substring[any])(nil)
	_ Family[any]    = (*Range[any, float64])(nil)
	_ Family[any]    = (*StringEqual[any])(nil)
)
