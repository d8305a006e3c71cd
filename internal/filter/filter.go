package filter

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Table is the field compatibility table of a single filterable entity type.
//
// It maps each filterable field name to its comparison family and designates the text field the free-text search
// term is matched against. A Table is built once per entity type and must not be modified afterwards, which makes
// it safe for concurrent use.
type Table[R any] struct {
	Fields map[string]Family[R]
	Search *Contains[R]
}

// Compose folds the given search term and conditions into a single Predicate.
//
// A non-blank search term adds a case-insensitive substring match on the search field. Every condition is then
// resolved through the field table and built by the declared family. All resulting predicates are combined with
// AND. Composition aborts on the first condition with an unknown field (*UnknownFieldError), an operator its family
// doesn't support (*InvalidOperatorError) or a value that can't be converted (*NumberFormatError).
func (t *Table[R]) Compose(search string, conditions []*Condition) (Predicate[R], error) {
	all := NewAll[R]()

	if term := strings.TrimSpace(search); term != "" && t.Search != nil {
		all.Add(t.Search.Build(term))
	}

	for _, c := range conditions {
		family, ok := t.Fields[c.Field()]
		if !ok {
			return nil, &UnknownFieldError{Field: c.Field()}
		}

		rule, err := family.Build(c.Field(), c.Operator(), c.Value())
		if err != nil {
			return nil, err
		}

		all.Add(rule)
	}

	return all, nil
}

// FieldNames returns the names of all filterable fields in alphabetical order.
func (t *Table[R]) FieldNames() []string {
	names := maps.Keys(t.Fields)
	slices.Sort(names)

	return names
}
