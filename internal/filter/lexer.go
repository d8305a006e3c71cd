package filter

import (
	"strings"
)

// segmentSeparator separates the individual conditions of a filter expression.
const segmentSeparator = ","

// operatorRunes contains all runes an operator token can start with. None of them may be part of a field name.
const operatorRunes = ":<>~"

// segment is a single non-blank, comma separated part of a filter expression.
type segment struct {
	index int    // index is the position of this segment within the expression, counting blank ones too.
	text  string // text is the trimmed segment.
}

// segments splits the given filter expression into its non-blank, trimmed segments.
func segments(expr string) []segment {
	var result []segment
	for i, part := range strings.Split(expr, segmentSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		result = append(result, segment{index: i, text: part})
	}

	return result
}

// lex tokenizes a single segment into its field, operator and value parts.
//
// The field is everything in front of the first operator rune. Operator tokens are tried longest first, and the
// first one followed by at least one more rune wins. Only that token is consumed, anything after it belongs to the
// value, e.g. "field:value:extra" yields the value "value:extra". Returns false if the segment doesn't have a
// non-blank field, an operator and a non-blank value.
func lex(text string) (field string, op Operator, value string, ok bool) {
	pos := strings.IndexAny(text, operatorRunes)
	if pos < 0 {
		return "", "", "", false
	}

	field = strings.TrimSpace(text[:pos])
	if field == "" {
		return "", "", "", false
	}

	rest := text[pos:]
	for _, candidate := range operators {
		token := string(candidate)
		if strings.HasPrefix(rest, token) && len(rest) > len(token) {
			op = candidate
			value = strings.TrimSpace(rest[len(token):])
			break
		}
	}

	if op == "" || value == "" {
		return "", "", "", false
	}

	return field, op, value, true
}
