// Package sqlite is the embedded single-file driver. All access goes through
// one connection, which serializes writers and keeps :memory: databases
// alive for the life of the Store.
package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlstore"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"

type Store struct {
	*sqlstore.Store
}

// NewStore opens the database at path. ":memory:" gives a private in-memory
// database, which the tests use.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	return &Store{Store: sqlstore.New(db, Dialect())}, nil
}

// DSN builds the modernc connection string for path with the pragmas the
// store depends on.
func DSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?" + pragmas
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + sep + pragmas
}

func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:              "sqlite",
		IsUniqueViolation: isUniqueViolation,
	}
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
