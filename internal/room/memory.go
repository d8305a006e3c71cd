package room

import (
	"context"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/rentals/rooms/internal/filter"
	"github.com/rentals/rooms/internal/utils"
	"github.com/shopspring/decimal"
)

// Memory is a Finder evaluating the composed predicates against an in-memory set of rooms.
// It's used when the daemon runs without a database, e.g. for demos and tests.
type Memory struct {
	rooms []*Room
}

// NewMemory creates a new Memory store holding the given rooms.
func NewMemory(rooms ...*Room) *Memory {
	return &Memory{rooms: rooms}
}

// fixture is the YAML representation of a single room.
type fixture struct {
	ID       int64   `yaml:"id"`
	Title    string  `yaml:"title"`
	Price    string  `yaml:"price"`
	Size     float64 `yaml:"size"`
	City     string  `yaml:"city"`
	District string  `yaml:"district"`
	Ward     string  `yaml:"ward"`
	Street   string  `yaml:"street"`
}

// LoadMemory loads rooms from the given YAML file, which contains a list of rooms.
func LoadMemory(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var fixtures []fixture
	if err := yaml.NewDecoder(f).Decode(&fixtures); err != nil {
		return nil, errors.Wrapf(err, "cannot decode rooms file %q", path)
	}

	rooms := make([]*Room, 0, len(fixtures))
	for i, fx := range fixtures {
		price, err := decimal.NewFromString(fx.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid price of room #%d in %q", i, path)
		}

		id := fx.ID
		if id == 0 {
			id = int64(i + 1)
		}

		rooms = append(rooms, &Room{
			ID:       id,
			Title:    fx.Title,
			Price:    price,
			Size:     fx.Size,
			City:     fx.City,
			District: fx.District,
			Ward:     fx.Ward,
			Street:   fx.Street,
		})
	}

	return NewMemory(rooms...), nil
}

// Find implements the Finder interface.
func (m *Memory) Find(ctx context.Context, p filter.Predicate[*Room], page filter.Page) ([]*Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := parseSort(page.Sort)
	rooms := FilterSlice(m.rooms, p)
	slices.SortStableFunc(rooms, order.compare)

	limit, offset := bounds(page)

	return utils.Paginate(rooms, limit, offset), nil
}

// Count implements the Finder interface.
func (m *Memory) Count(ctx context.Context, p filter.Predicate[*Room]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return len(FilterSlice(m.rooms, p)), nil
}

// FilterSlice returns a new slice of all the given rooms matching the predicate, keeping their order.
func FilterSlice(rooms []*Room, p filter.Predicate[*Room]) []*Room {
	matched := make([]*Room, 0, len(rooms))
	for _, r := range rooms {
		if p.Matches(r) {
			matched = append(matched, r)
		}
	}

	return matched
}

// Assert interface compliance.
var _ Finder = (*Memory)(nil)
