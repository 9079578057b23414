package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/sweeper/internal/mines"
)

type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore creates the save table in db if it does not exist yet.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS game_save (
	name		TEXT PRIMARY KEY,
	size		INTEGER NOT NULL,
	state		BLOB NOT NULL,
	updated_at	TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, name string, snap *mines.Snapshot) error {
	if !ValidName(name) {
		return ErrBadName
	}
	data, err := snap.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
INSERT INTO game_save (name, size, state)
VALUES(?, ?, ?)
ON CONFLICT(name)
DO UPDATE SET size=excluded.size, state=excluded.state, updated_at=CURRENT_TIMESTAMP;`,
		name, snap.Size, data)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (*mines.Snapshot, error) {
	if !ValidName(name) {
		return nil, ErrBadName
	}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM game_save WHERE name = ?;`, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return mines.DecodeSnapshot(bytes.NewReader(data))
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM game_save ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrBadName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM game_save WHERE name = ?;`, name)
	return err
}
