package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

type txStore struct {
	tx *sql.Tx
	q  *queries
}

func newTx(tx *sql.Tx, d Dialect) *txStore {
	return &txStore{
		tx: tx,
		q:  newQueries(tx, d),
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the outer DB stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Organizations() store.Organizations { return &organizationsRepo{q: t.q} }
func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.q} }
func (t *txStore) Invites() store.Invites             { return &invitesRepo{q: t.q} }
func (t *txStore) Projects() store.Projects           { return &projectsRepo{q: t.q} }
func (t *txStore) Tasks() store.Tasks                 { return &tasksRepo{q: t.q} }
func (t *txStore) TimeEntries() store.TimeEntries     { return &timeEntriesRepo{q: t.q} }
func (t *txStore) Meetings() store.Meetings           { return &meetingsRepo{q: t.q} }

// ApplyMigrations is a no-op; migrations run before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }
