package filter

import (
	"fmt"
)

// SyntaxError is returned by Validate for the first malformed segment of a filter expression.
type SyntaxError struct {
	Expression string
	Segment    string
	Index      int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid filter %q, malformed condition %q at position %d: expected <field><operator><value>",
		e.Expression, e.Segment, e.Index)
}

// Is implements the interface used by errors.Is.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// Validate checks that every non-blank segment of the given filter expression is a well-formed condition.
//
// Unlike Parse, Validate is strict: a single malformed segment invalidates the whole expression. An empty
// expression is valid, since filtering is optional.
func Validate(expr string) error {
	for _, seg := range segments(expr) {
		if _, _, _, ok := lex(seg.text); !ok {
			return &SyntaxError{Expression: expr, Segment: seg.text, Index: seg.index}
		}
	}

	return nil
}

// Valid returns true if the given filter expression passes Validate.
func Valid(expr string) bool {
	return Validate(expr) == nil
}
