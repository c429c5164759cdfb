package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smallwat3r/textdrop/internal/domain"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS texts (
	code       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS texts_expires_at ON texts (expires_at);
`

// SQLiteStore keeps texts in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens (or creates) the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one writer at a time; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO texts (code, body, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET body = excluded.body, expires_at = excluded.expires_at`,
		key, value, s.now().Add(ttl).UnixMilli())
	if err != nil {
		return &domain.StoreError{Op: "set", Err: err}
	}
	return nil
}

// GetAndDelete removes the row and reads it back in one statement.
func (s *SQLiteStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	var (
		body      string
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM texts WHERE code = ? RETURNING body, expires_at`, key,
	).Scan(&body, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", &domain.StoreError{Op: "getdel", Err: err}
	}
	if expiresAt <= s.now().UnixMilli() {
		return "", domain.ErrNotFound
	}
	return body, nil
}

// PurgeExpired deletes rows whose TTL has elapsed.
func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM texts WHERE expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, &domain.StoreError{Op: "purge", Err: err}
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
