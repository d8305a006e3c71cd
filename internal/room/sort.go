package room

import (
	"cmp"
	"math"
	"strings"

	"github.com/rentals/rooms/internal/filter"
)

// DefaultPageSize is used for pages without an explicit size.
const DefaultPageSize = 20

// sortColumns contains all columns rooms can be sorted by and how to compare two rooms by each of them.
var sortColumns = map[string]func(a, b *Room) int{
	"id":       func(a, b *Room) int { return cmp.Compare(a.ID, b.ID) },
	"title":    func(a, b *Room) int { return cmp.Compare(a.Title, b.Title) },
	"price":    func(a, b *Room) int { return a.Price.Cmp(b.Price) },
	"size":     func(a, b *Room) int { return cmp.Compare(a.Size, b.Size) },
	"city":     func(a, b *Room) int { return cmp.Compare(a.City, b.City) },
	"district": func(a, b *Room) int { return cmp.Compare(a.District, b.District) },
	"ward":     func(a, b *Room) int { return cmp.Compare(a.Ward, b.Ward) },
	"street":   func(a, b *Room) int { return cmp.Compare(a.Street, b.Street) },
}

// ordering is a parsed sort parameter.
type ordering struct {
	column string
	desc   bool
}

// parseSort parses sort parameters like "price" or "price,desc".
// Unknown columns fall back to sorting by id, unknown directions to ascending.
func parseSort(sort string) ordering {
	column, direction, _ := strings.Cut(sort, ",")
	column = strings.ToLower(strings.TrimSpace(column))
	if _, ok := sortColumns[column]; !ok {
		column = "id"
	}

	return ordering{column: column, desc: strings.EqualFold(strings.TrimSpace(direction), "desc")}
}

// compare compares two rooms by this ordering, using the id as tiebreaker.
func (o ordering) compare(a, b *Room) int {
	res := sortColumns[o.column](a, b)
	if o.desc {
		res = -res
	}
	if res == 0 && o.column != "id" {
		res = cmp.Compare(a.ID, b.ID)
	}

	return res
}

// sql renders this ordering to an ORDER BY clause.
func (o ordering) sql() string {
	direction := "ASC"
	if o.desc {
		direction = "DESC"
	}

	clause := `"` + o.column + `" ` + direction
	if o.column != "id" {
		clause += `, "id" ASC`
	}

	return clause
}

// bounds returns the limit and offset of the given page. Page numbers start at zero.
// Page numbers whose offset would overflow an int are clamped, which yields an empty page.
func bounds(page filter.Page) (limit, offset int) {
	limit = page.Size
	if limit <= 0 {
		limit = DefaultPageSize
	}

	number := page.Number
	if number < 0 {
		number = 0
	}
	if number > math.MaxInt/limit {
		number = math.MaxInt / limit
	}

	return limit, number * limit
}
