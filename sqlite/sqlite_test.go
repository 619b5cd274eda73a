package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/linkscout/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("migrates an empty database to the current version", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		version, err := db.Version(ctx)
		require.NoError(t, err)
		assert.Equal(t, sqlite.SchemaVersion, version)

		for _, table := range []string{"scans", "findings"} {
			var n int
			require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n), table)
		}
	})

	t.Run("reopening a migrated file keeps its data", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "history.db")
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(ctx, `INSERT INTO scans (id, domain, mode, started_at) VALUES ('s1', 'example.com', 'all', '2024-01-01T00:00:00Z')`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scans").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("refuses a database from a newer release", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "future.db")
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(ctx, "PRAGMA user_version = 99")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		err = sqlite.NewDB(path).Open()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "newer than supported")
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		require.Error(t, db.Open())
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode))
		assert.Equal(t, "wal", journalMode)
	})

	t.Run("enforces foreign keys", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO findings (id, scan_id, domain, source, url, url_hash, found_at)
			VALUES ('f1', 'missing', 'example.com', 'backlink', 'https://a.test/', 'x', '2024-01-01T00:00:00Z')
		`)
		require.Error(t, err)
	})
}

func TestDB_FindingUniqueness(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO scans (id, domain, mode, started_at) VALUES ('s1', 'example.com', 'all', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	insert := func(id, url string) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO findings (id, scan_id, domain, source, url, url_hash, found_at)
			VALUES (?, 's1', 'example.com', 'backlink', ?, 'samehash', '2024-01-01T00:00:00Z')
		`, id, url)
		return err
	}

	require.NoError(t, insert("f1", "https://a.test/"))
	require.NoError(t, insert("f2", "https://b.test/"), "distinct URL with a colliding hash is kept")
	require.Error(t, insert("f3", "https://a.test/"), "same URL is still unique per scan and source")
}

// setupTestDB opens an in-memory database closed at test cleanup.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}
