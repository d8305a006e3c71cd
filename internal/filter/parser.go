package filter

// Parse parses the given filter expression into its conditions.
//
// Parse is lenient: segments that aren't of the form <field><operator><value> are silently dropped, all others
// are returned in their original order. An empty or blank expression yields an empty, non-nil slice.
// Use Validate to reject malformed expressions before they reach this function.
func Parse(expr string) []*Condition {
	conditions := make([]*Condition, 0)
	for _, seg := range segments(expr) {
		field, op, value, ok := lex(seg.text)
		if !ok {
			continue
		}

		conditions = append(conditions, &Condition{field: field, op: op, value: value})
	}

	return conditions
}

// ParseOptional is like Parse, but returns nil if no filter expression was given at all.
func ParseOptional(expr *string) []*Condition {
	if expr == nil {
		return nil
	}

	return Parse(*expr)
}
