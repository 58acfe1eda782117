package sqlite_test

import (
	"testing"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/storetest"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStore(t *testing.T) {
	t.Parallel()
	storetest.Run(t, openMemory)
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := openMemory(t)
	require.NoError(t, s.ApplyMigrations())
}

func TestDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{":memory:", "file::memory:?_pragma=foreign_keys(1)"},
		{"/data/taskboard.db", "file:/data/taskboard.db?_pragma=foreign_keys(1)"},
		{"file:tb.db?mode=rwc", "file:tb.db?mode=rwc&_pragma=foreign_keys(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Contains(t, sqlite.DSN(tt.in), tt.want)
		})
	}
}
