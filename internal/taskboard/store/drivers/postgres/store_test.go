package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/postgres"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlstore"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/storetest"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "taskboard"
	pgPassword = "taskboard"
)

// startPostgres runs a throwaway server and returns a URL template with a
// %s where the database name goes.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%%s?sslmode=disable", pgUser, pgPassword, host, port.Port())
}

func TestStore(t *testing.T) {
	urlFor := startPostgres(t)

	admin, err := sql.Open("postgres", fmt.Sprintf(urlFor, "postgres"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	// Each subtest gets its own database so they can run in parallel.
	open := func(t *testing.T) store.Store {
		t.Helper()

		name := "tb_" + strings.ToLower(idx.New().String())
		_, err := admin.ExecContext(context.Background(), "CREATE DATABASE "+name)
		require.NoError(t, err)

		s, err := postgres.NewStore(fmt.Sprintf(urlFor, name))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.ApplyMigrations())
		return s
	}

	storetest.Run(t, open)
}

func TestDollarPlaceholders(t *testing.T) {
	t.Parallel()

	got := sqlstore.DollarPlaceholders(`SELECT a FROM t WHERE b = ? AND (c = ? OR d = ?) LIMIT ?`)
	require.Equal(t, `SELECT a FROM t WHERE b = $1 AND (c = $2 OR d = $3) LIMIT $4`, got)
}
