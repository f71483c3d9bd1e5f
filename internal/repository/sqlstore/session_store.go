package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"volunteermap/internal/domain"
)

// SessionStore keeps string-keyed session entries in a SQL table.
type SessionStore struct {
	DB     *sql.DB
	driver string
	now    func() time.Time
}

// NewSessionStore returns a store for db. driver selects the placeholder style.
func NewSessionStore(db *sql.DB, driver string) *SessionStore {
	return &SessionStore{DB: db, driver: driver, now: time.Now}
}

var _ domain.SessionStore = (*SessionStore)(nil)

// bind rewrites $n placeholders to ? for sqlite.
func (s *SessionStore) bind(query string) string {
	if s.driver != DriverSQLite {
		return query
	}
	for i := 9; i >= 1; i-- {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), "?")
	}
	return query
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	query := s.bind(`SELECT value FROM session_entries WHERE key = $1`)
	var value string
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrSessionKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	query := s.bind(`
		INSERT INTO session_entries (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`)
	_, err := s.DB.ExecContext(ctx, query, key, value, s.now().UTC())
	return err
}

// MultiRemove deletes all keys in one transaction. Missing keys are ignored.
func (s *SessionStore) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	query := s.bind(`DELETE FROM session_entries WHERE key = $1`)
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, query, key); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
