package room

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icinga/icingadb/pkg/driver"
	"github.com/rentals/rooms/internal/filter"
	"github.com/rentals/rooms/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	db := testutils.GetTestDB(ctx, t)

	schema := "mysql"
	if db.DriverName() == driver.PostgreSQL {
		schema = "pgsql"
	}

	_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS room`)
	require.NoError(t, err, "dropping room table should not fail")

	ddl, err := os.ReadFile(filepath.Join("..", "..", "schema", schema, "schema.sql"))
	require.NoError(t, err, "reading schema should not fail")
	for _, stmt := range strings.Split(string(ddl), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, "importing schema should not fail")
	}

	store := NewStore(db, testutils.NewTestLogger(t))
	for _, r := range loadTestRooms(t).rooms {
		inserted := *r
		inserted.ID = 0
		require.NoError(t, store.Insert(ctx, &inserted), "inserting room should not fail")
		assert.Equal(t, r.ID, inserted.ID, "rooms should get sequential ids")
	}

	t.Run("MatchesMemory", func(t *testing.T) {
		m := loadTestRooms(t)

		testdata := []struct {
			Search     string
			Expression string
			Page       filter.Page
		}{
			{"", "", filter.Page{}},
			{"studio", "price:>50,city:Hanoi", filter.Page{}},
			{"", "price:3200000.5", filter.Page{}},
			{"", "price:>1500000,price:<4500000", filter.Page{Sort: "price,desc"}},
			{"", "size:>18,size<80.5", filter.Page{}},
			{"", "city:HANOI", filter.Page{Number: 1, Size: 2}},
			{"STUDIO", "", filter.Page{Sort: "size"}},
			{"100%", "", filter.Page{}},
		}

		for _, td := range testdata {
			p := compose(t, td.Search, td.Expression)

			expected, err := m.Find(ctx, p, td.Page)
			require.NoError(t, err)
			actual, err := store.Find(ctx, p, td.Page)
			if assert.NoError(t, err, "querying %q should not fail", td.Expression) {
				assert.Equal(t, ids(expected), ids(actual), "unexpected rooms for %q (search %q)", td.Expression, td.Search)
			}

			expectedCount, err := m.Count(ctx, p)
			require.NoError(t, err)
			actualCount, err := store.Count(ctx, p)
			if assert.NoError(t, err) {
				assert.Equal(t, expectedCount, actualCount, "unexpected count for %q", td.Expression)
			}
		}
	})
}
