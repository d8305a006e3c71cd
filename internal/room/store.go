package room

import (
	"context"
	"fmt"

	"github.com/icinga/icingadb/pkg/icingadb"
	"github.com/icinga/icingadb/pkg/logging"
	"github.com/pkg/errors"
	"github.com/rentals/rooms/internal/filter"
	"github.com/rentals/rooms/internal/utils"
	"go.uber.org/zap"
)

// Finder is implemented by every room store.
type Finder interface {
	// Find returns the given page of all rooms matching the predicate.
	Find(ctx context.Context, p filter.Predicate[*Room], page filter.Page) ([]*Room, error)

	// Count returns the number of all rooms matching the predicate.
	Count(ctx context.Context, p filter.Predicate[*Room]) (int, error)
}

// Store is a Finder backed by the relational database.
//
// The composed predicates are rendered to a WHERE clause, so filtering happens in the database.
type Store struct {
	db     *icingadb.DB
	logger *logging.Logger
}

// NewStore creates a new Store using the given database connection.
func NewStore(db *icingadb.DB, logger *logging.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Find implements the Finder interface.
func (s *Store) Find(ctx context.Context, p filter.Predicate[*Room], page filter.Page) ([]*Room, error) {
	where, args := p.Where()
	limit, offset := bounds(page)

	query := fmt.Sprintf(
		"%s WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		s.db.BuildSelectStmt(new(Room), new(Room)), where, parseSort(page.Sort).sql(), limit, offset,
	)

	var rooms []*Room
	if err := s.db.SelectContext(ctx, &rooms, s.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "cannot fetch rooms")
	}

	s.logger.Debugw("Fetched rooms from database",
		zap.String("where", where), zap.Int("page", page.Number), zap.Int("count", len(rooms)))

	return rooms, nil
}

// Count implements the Finder interface.
func (s *Store) Count(ctx context.Context, p filter.Predicate[*Room]) (int, error) {
	where, args := p.Where()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM "%s" WHERE %s`, new(Room).TableName(), where)

	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(query), args...); err != nil {
		return 0, errors.Wrap(err, "cannot count rooms")
	}

	return count, nil
}

// Insert stores the given room and sets its id to the one assigned by the database.
func (s *Store) Insert(ctx context.Context, r *Room) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "cannot start a database transaction")
	}
	defer func() { _ = tx.Rollback() }()

	id, err := utils.InsertAndFetchId(ctx, tx, utils.BuildInsertStmtWithout(s.db, r, "id"), r)
	if err != nil {
		return errors.Wrapf(err, "cannot insert room %q", r.Title)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "cannot commit database transaction")
	}

	r.ID = id

	return nil
}

// Assert interface compliance.
var _ Finder = (*Store)(nil)
