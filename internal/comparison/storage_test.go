package comparison

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := OpenSQLiteStorage(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// postgresDSNEnv names a scratch database for the postgres contract run.
const postgresDSNEnv = "CLIMA_TEST_POSTGRES_DSN"

var contractKeys = []string{"k", "comparison:missing"}

func openPostgres(t *testing.T) *PostgresStorage {
	t.Helper()

	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", postgresDSNEnv)
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	s := NewPostgresStorage(db)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Ping(ctx))

	clean := func() {
		for _, k := range contractKeys {
			_, _ = db.ExecContext(ctx, `DELETE FROM comparison_sets WHERE key = $1`, k)
		}
	}
	clean()
	t.Cleanup(clean)
	return s
}

func TestStorageContract(t *testing.T) {
	backends := map[string]func(t *testing.T) Storage{
		"memory":   func(t *testing.T) Storage { return NewMemoryStorage() },
		"sqlite":   func(t *testing.T) Storage { return openSQLite(t) },
		"postgres": func(t *testing.T) Storage { return openPostgres(t) },
	}

	for name, newStorage := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStorage(t)

			_, err := s.Load(ctx, "comparison:missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Save(ctx, "k", []byte(`[{"id":"A"}]`)))
			got, err := s.Load(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"A"}]`, string(got))

			require.NoError(t, s.Save(ctx, "k", []byte(`[]`)))
			got, err = s.Load(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got), "overwrite")
		})
	}
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	v := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", v))
	v[0] = 'x'

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStorage_CreatesFileAndSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	s, err := OpenSQLiteStorage(dir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, sqliteFile))
	require.NoError(t, statErr)

	store, err := Open(ctx, s, testKey)
	require.NoError(t, err)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		_, err := store.Add(ctx, product(id))
		require.NoError(t, err)
	}
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStorage(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	again, err := Open(ctx, reopened, testKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D", "E"}, itemIDs(again))
}
