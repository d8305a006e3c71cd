package room

import (
	"github.com/rentals/rooms/internal/filter"
	"github.com/shopspring/decimal"
)

// Room is a single rental room as stored in the "room" table.
type Room struct {
	ID       int64           `db:"id" json:"id"`
	Title    string          `db:"title" json:"title"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Size     float64         `db:"size" json:"size"`
	City     string          `db:"city" json:"city"`
	District string          `db:"district" json:"district"`
	Ward     string          `db:"ward" json:"ward"`
	Street   string          `db:"street" json:"street"`
}

// TableName implements the contracts.TableNamer interface.
func (r *Room) TableName() string {
	return "room"
}

// Fields is the field compatibility table used to filter rooms.
var Fields = &filter.Table[*Room]{
	Fields: map[string]filter.Family[*Room]{
		"price": &filter.Range[*Room, decimal.Decimal]{
			Column:  "price",
			Get:     func(r *Room) decimal.Decimal { return r.Price },
			Parse:   decimal.NewFromString,
			Compare: func(a, b decimal.Decimal) int { return a.Cmp(b) },
		},
		"size":     filter.NewRange("size", func(r *Room) float64 { return r.Size }, filter.ParseFloat),
		"city":     &filter.StringEqual[*Room]{Column: "city", Get: func(r *Room) string { return r.City }},
		"district": &filter.StringEqual[*Room]{Column: "district", Get: func(r *Room) string { return r.District }},
		"ward":     &filter.StringEqual[*Room]{Column: "ward", Get: func(r *Room) string { return r.Ward }},
		"street":   &filter.StringEqual[*Room]{Column: "street", Get: func(r *Room) string { return r.Street }},
	},
	Search: &filter.Contains[*Room]{Column: "title", Get: func(r *Room) string { return r.Title }},
}
