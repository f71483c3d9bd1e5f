package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers for device storage.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const createSessionTable = `
	CREATE TABLE IF NOT EXISTS session_entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

// Open connects to the session database and ensures the schema exists.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported session database driver %q (use sqlite or postgres)", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer at a time keeps sqlite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the session table if needed.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createSessionTable); err != nil {
		return fmt.Errorf("create session table: %w", err)
	}
	return nil
}
