package postgres

import (
	"errors"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations brings the schema up to date from the embedded files. The
// migrate driver takes an advisory lock, so concurrent replicas starting
// together apply each migration once.
func (s *Store) ApplyMigrations() error {
	// 1. Create the PostgreSQL migration driver
	driver, err := migratepg.WithInstance(s.DB(), &migratepg.Config{})
	if err != nil {
		return err
	}

	// 2. Create the iofs (embedded filesystem) source driver
	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	// 3. Create the migrate instance to run migrations
	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return err
	}

	// 4. Apply all up migrations
	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
