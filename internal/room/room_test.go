package room

import (
	"context"
	"math"
	"testing"

	"github.com/rentals/rooms/internal/filter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestRooms(t *testing.T) *Memory {
	m, err := LoadMemory("testdata/rooms.yml")
	require.NoError(t, err, "loading rooms fixture should not fail")
	require.Len(t, m.rooms, 4)

	return m
}

func ids(rooms []*Room) []int64 {
	result := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, r.ID)
	}

	return result
}

func compose(t *testing.T, search, expr string) filter.Predicate[*Room] {
	p, err := Fields.Compose(search, filter.Parse(expr))
	require.NoError(t, err, "composing %q with search %q should not fail", expr, search)

	return p
}

func TestLoadMemory(t *testing.T) {
	t.Parallel()

	m := loadTestRooms(t)
	assert.Equal(t, &Room{
		ID:       3,
		Title:    "Sunny Studio by the river",
		Price:    decimal.RequireFromString("3200000.50"),
		Size:     18,
		City:     "Da Nang",
		District: "Hai Chau",
		Ward:     "Thach Thang",
		Street:   "Bach Dang",
	}, m.rooms[2])

	_, err := LoadMemory("testdata/does-not-exist.yml")
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	t.Parallel()

	m := loadTestRooms(t)
	ctx := context.Background()

	t.Run("EndToEnd", func(t *testing.T) {
		t.Parallel()

		rooms, err := m.Find(ctx, compose(t, "studio", "price:>50,city:Hanoi"), filter.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, ids(rooms))
	})

	t.Run("DecimalPrices", func(t *testing.T) {
		t.Parallel()

		testdata := []struct {
			Expression string
			Expected   []int64
		}{
			{"price:3200000.5", []int64{3}},
			{"price:3200000.50", []int64{3}},
			{"price>3200000.5", []int64{1, 2}},
			{"price:<3200000.5", []int64{3, 4}},
			{"price<1500000", []int64{}},
			{"price:>1500000,price:<4500000", []int64{1, 3, 4}},
		}

		for _, td := range testdata {
			rooms, err := m.Find(ctx, compose(t, "", td.Expression), filter.Page{})
			if assert.NoError(t, err) {
				assert.Equal(t, td.Expected, ids(rooms), "unexpected rooms for %q", td.Expression)
			}
		}
	})

	t.Run("FloatSizes", func(t *testing.T) {
		t.Parallel()

		rooms, err := m.Find(ctx, compose(t, "", "size:>18,size<80.5"), filter.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3}, ids(rooms))
	})

	t.Run("CaseInsensitiveLocation", func(t *testing.T) {
		t.Parallel()

		upper, err := m.Find(ctx, compose(t, "", "city:HANOI"), filter.Page{})
		require.NoError(t, err)
		lower, err := m.Find(ctx, compose(t, "", "city:hanoi"), filter.Page{})
		require.NoError(t, err)

		assert.Equal(t, []int64{1, 2, 4}, ids(upper))
		assert.Equal(t, ids(upper), ids(lower))

		rooms, err := m.Find(ctx, compose(t, "", "district:cau giay,ward:DICH VONG,street:xuan thuy"), filter.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, ids(rooms))
	})

	t.Run("Errors", func(t *testing.T) {
		t.Parallel()

		_, err := Fields.Compose("", filter.Parse("bogus:1,city:Hanoi"))
		assert.Equal(t, &filter.UnknownFieldError{Field: "bogus"}, err)

		_, err = Fields.Compose("", filter.Parse("city>Hanoi"))
		assert.Equal(t, &filter.InvalidOperatorError{Field: "city", Operator: filter.GreaterThan}, err)

		_, err = Fields.Compose("", filter.Parse("price~100"))
		assert.Equal(t, &filter.InvalidOperatorError{Field: "price", Operator: filter.Like}, err)

		_, err = Fields.Compose("", filter.Parse("size:>large"))
		assert.IsType(t, &filter.NumberFormatError{}, err)

		_, err = Fields.Compose("", filter.Parse("price:cheap"))
		assert.IsType(t, &filter.NumberFormatError{}, err)

		for _, expr := range []string{"size>NaN", "size:nan", "size<Inf", "size:>-Infinity", "size:1e400", "price>NaN", "price:Inf"} {
			_, err = Fields.Compose("", filter.Parse(expr))
			assert.IsType(t, &filter.NumberFormatError{}, err, "%q should be rejected as a number format error", expr)
		}
	})

	t.Run("SearchAlwaysTargetsTitle", func(t *testing.T) {
		t.Parallel()

		rooms, err := m.Find(ctx, compose(t, "hanoi", ""), filter.Page{})
		require.NoError(t, err)
		assert.Empty(t, rooms, "the search term must not match the city")

		rooms, err = m.Find(ctx, compose(t, "  STUDIO ", ""), filter.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3}, ids(rooms))
	})

	t.Run("FieldNames", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"city", "district", "price", "size", "street", "ward"}, Fields.FieldNames())
	})
}

func TestMemoryPagination(t *testing.T) {
	t.Parallel()

	m := loadTestRooms(t)
	ctx := context.Background()
	all := compose(t, "", "")

	tests := []struct {
		name string
		page filter.Page
		want []int64
	}{
		{"Default", filter.Page{}, []int64{1, 2, 3, 4}},
		{"FirstPage", filter.Page{Size: 3}, []int64{1, 2, 3}},
		{"SecondPage", filter.Page{Number: 1, Size: 3}, []int64{4}},
		{"BeyondLastPage", filter.Page{Number: 5, Size: 3}, []int64{}},
		{"NegativePage", filter.Page{Number: -1, Size: 2}, []int64{1, 2}},
		{"HugePage", filter.Page{Number: 1<<62 + 1, Size: 2}, []int64{}},
		{"HugePageWrappingToZero", filter.Page{Number: 1 << 62, Size: 4}, []int64{}},
		{"MaxPage", filter.Page{Number: math.MaxInt, Size: 3}, []int64{}},
		{"SortByPrice", filter.Page{Sort: "price"}, []int64{4, 3, 1, 2}},
		{"SortByPriceDesc", filter.Page{Sort: "price,desc"}, []int64{2, 1, 3, 4}},
		{"SortBySizeDescPaged", filter.Page{Number: 1, Size: 2, Sort: " SIZE , DESC "}, []int64{3, 4}},
		{"SortByCityTiebreaker", filter.Page{Sort: "city,asc"}, []int64{3, 4, 1, 2}},
		{"UnknownSortColumn", filter.Page{Sort: "bogus,desc"}, []int64{4, 3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := m.Find(ctx, all, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(rooms))
		})
	}

	count, err := m.Count(ctx, compose(t, "", "city:hanoi"))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestOrdering(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"price" DESC, "id" ASC`, parseSort("price,desc").sql())
	assert.Equal(t, `"id" ASC`, parseSort("").sql())
	assert.Equal(t, `"id" ASC`, parseSort(`title"; DROP TABLE room; --`).sql())

	limit, offset := bounds(filter.Page{Number: 3, Size: 10})
	assert.Equal(t, 10, limit)
	assert.Equal(t, 30, offset)

	limit, offset = bounds(filter.Page{Number: 1<<62 + 1, Size: 2})
	assert.Equal(t, 2, limit)
	assert.GreaterOrEqual(t, offset, 0, "offset must not overflow")
	assert.Equal(t, math.MaxInt/2*2, offset)
}
