package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/upcheck/internal/common"
)

// SQLiteStore keeps all collections in one sqlite database, one row per
// record, with the JSON document in the value column. Row-level locking
// and the primary key give the same per-record guarantees as the file
// backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and prepares the
// records table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BLOB NOT NULL,
			PRIMARY KEY (collection, key)
		);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, collection, key string, value any) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	// ON CONFLICT DO NOTHING plus RowsAffected distinguishes a duplicate
	// key from a genuine write error.
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO records (collection, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(collection, key) DO NOTHING
	`, collection, key, data)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create record: rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context, collection, key string, out any) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM records
		WHERE collection = ? AND key = ?
	`, collection, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("read record: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, key string, value any) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE records SET value = ?
		WHERE collection = ? AND key = ?
	`, data, collection, key)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update record: rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, key string) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM records
		WHERE collection = ? AND key = ?
	`, collection, key)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, collection string) ([]string, error) {
	if err := validNames(collection, "x"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key FROM records
		WHERE collection = ?
		ORDER BY key
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("list collection: scan: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return keys, nil
}
