// Package sqlstore implements the taskboard repositories over database/sql.
// The SQL is written once with ? placeholders; a Dialect adapts it to the
// concrete engine. Drivers embed *Store and add their own migrations.
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

// Dialect captures what differs between engines for the shared SQL.
type Dialect struct {
	Name string

	// Rebind rewrites the ? placeholders of a query. Nil keeps them.
	Rebind func(query string) string

	// IsUniqueViolation reports whether err is a unique or primary key
	// constraint failure.
	IsUniqueViolation func(err error) bool
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	q       *queries
}

// New wraps an open database. The caller keeps ownership of driver specific
// setup such as pragmas and pool sizing.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		q:       newQueries(db, dialect),
	}
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.dialect), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback after a commit is a harmless ErrTxDone.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Organizations() store.Organizations { return &organizationsRepo{q: s.q} }
func (s *Store) Users() store.Users                 { return &usersRepo{q: s.q} }
func (s *Store) Invites() store.Invites             { return &invitesRepo{q: s.q} }
func (s *Store) Projects() store.Projects           { return &projectsRepo{q: s.q} }
func (s *Store) Tasks() store.Tasks                 { return &tasksRepo{q: s.q} }
func (s *Store) TimeEntries() store.TimeEntries     { return &timeEntriesRepo{q: s.q} }
func (s *Store) Meetings() store.Meetings           { return &meetingsRepo{q: s.q} }
