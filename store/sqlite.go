package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the durable Store implementation.
type SQLite struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and brings the
// schema up to date.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, err
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// DB exposes the underlying handle for collaborators that keep their own
// tables in the same file (the auth token store).
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.
		QueryRowContext(ctx, "SELECT value FROM config_blob WHERE key = ?", key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(value), nil
}

func (s *SQLite) Set(ctx context.Context, key string, value json.RawMessage, meta Metadata) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config_blob (key, value, content_type, updated_at)
		VALUES (?, ?, 'application/json', ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			content_type = excluded.content_type,
			updated_at = excluded.updated_at`,
		key, string(value), meta.UpdatedAt,
	)
	return err
}
