// Package sqlite provides the SQLite-backed scan history store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// migrations are applied in order. The database's user_version records how
// many have run, so only append to this list.
var migrations = []string{
	`CREATE TABLE scans (
		id TEXT PRIMARY KEY,
		domain TEXT NOT NULL,
		mode TEXT NOT NULL,
		started_at TEXT NOT NULL
	);
	CREATE INDEX idx_scans_domain ON scans(domain);`,

	`CREATE TABLE findings (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		domain TEXT NOT NULL,
		source TEXT NOT NULL,
		extension TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		url_hash TEXT NOT NULL,
		found_at TEXT NOT NULL
	);
	CREATE INDEX idx_findings_domain ON findings(domain, found_at);
	CREATE UNIQUE INDEX idx_findings_scan_url ON findings(scan_id, source, url_hash);`,

	// url_hash stays the leading lookup key; url decides when hashes collide.
	`DROP INDEX idx_findings_scan_url;
	CREATE UNIQUE INDEX idx_findings_scan_url ON findings(scan_id, source, url_hash, url);`,
}

// SchemaVersion is the user_version of a fully migrated database.
var SchemaVersion = len(migrations)

// DB is a scan history database. Use ":memory:" as the path for a
// throwaway database.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for path. Nothing is opened until Open.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects, configures the connection and migrates the schema.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; report writes from concurrent scans queue here.
	conn.SetMaxOpenConns(1)

	pragmas := []string{"busy_timeout = 5000", "foreign_keys = ON"}
	if db.path != ":memory:" {
		pragmas = append(pragmas, "journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec("PRAGMA " + p); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set %s: %w", p, err)
		}
	}

	db.db = conn
	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		db.db = nil
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// Version returns the schema version recorded in the database.
func (db *DB) Version(ctx context.Context) (int, error) {
	var v int
	err := db.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v)
	return v, err
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// migrate runs each pending migration in its own transaction.
func (db *DB) migrate(ctx context.Context) error {
	version, err := db.Version(ctx)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
