package filter

// Page holds the pagination and sort parameters of a request.
// They aren't interpreted by this package, but passed through to the store unchanged.
type Page struct {
	Number int    `json:"page"`
	Size   int    `json:"size"`
	Sort   string `json:"sort,omitempty"`
}

// Request is the filter part of a single listing request.
//
// The conditions are parsed from the raw filter expression on first access and cached afterwards. A Request is
// owned by the request that created it and must not be shared between goroutines.
type Request struct {
	// Filter is the raw filter expression, nil if the request didn't provide one.
	Filter *string
	// Search is the free-text search term, empty if none was given.
	Search string
	// Page holds the opaque pagination parameters.
	Page Page

	conditions []*Condition
	resolved   bool
}

// NewRequest creates a new Request from the given filter expression and search term.
func NewRequest(filter *string, search string, page Page) *Request {
	return &Request{Filter: filter, Search: search, Page: page}
}

// Conditions returns the conditions of this request's filter expression.
//
// The filter expression is parsed only once, later calls return the very same slice. Returns nil if the request
// doesn't have a filter expression.
func (r *Request) Conditions() []*Condition {
	if !r.resolved {
		r.conditions = ParseOptional(r.Filter)
		r.resolved = true
	}

	return r.conditions
}

// SetConditions replaces the conditions of this request, preventing the filter expression from being parsed.
func (r *Request) SetConditions(conditions []*Condition) {
	r.conditions = conditions
	r.resolved = true
}

// Compose composes the search term and conditions of this request using the given field table.
func Compose[R any](t *Table[R], r *Request) (Predicate[R], error) {
	return t.Compose(r.Search, r.Conditions())
}
