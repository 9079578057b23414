package storage

import (
	"bytes"
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/sweeper/internal/mines"
)

// PostgresStore uses the game_save table created by the database
// migrations.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Save(ctx context.Context, name string, snap *mines.Snapshot) error {
	if !ValidName(name) {
		return ErrBadName
	}
	data, err := snap.Bytes()
	if err != nil {
		return err
	}
	args := pgx.NamedArgs{
		"name":  name,
		"size":  snap.Size,
		"state": data,
	}

	_, err = p.db.Exec(ctx, `
		INSERT INTO game_save (name, size, state)
		VALUES (@name, @size, @state);`,
		args,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		Log.WithField("name", name).Debug("overwriting save")
		_, err = p.db.Exec(ctx, `
			UPDATE game_save
			SET size = @size, state = @state, updated_at = now()
			WHERE name = @name;`,
			args,
		)
	}
	return err
}

func (p *PostgresStore) Load(ctx context.Context, name string) (*mines.Snapshot, error) {
	if !ValidName(name) {
		return nil, ErrBadName
	}
	var data []byte
	err := p.db.QueryRow(ctx,
		"SELECT state FROM game_save WHERE name = $1", name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return mines.DecodeSnapshot(bytes.NewReader(data))
}

func (p *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, _ := p.db.Query(ctx, "SELECT name FROM game_save ORDER BY name")
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *PostgresStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrBadName
	}
	_, err := p.db.Exec(ctx, "DELETE FROM game_save WHERE name = $1", name)
	return err
}
