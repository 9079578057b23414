package storage

import (
	"context"
	"fmt"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
)

// Open builds the store selected by the config. The returned func releases
// its resources.
func Open(ctx context.Context, c *config.Config) (Store, func(), error) {
	switch c.Store {
	case config.StoreFile:
		s, err := NewFileStore(c.SaveDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.StoreSQLite:
		s, err := OpenSQLite(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.StorePostgres:
		pool, err := database.ConnectAndMigrate(ctx, c)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalidConfig, c.Store)
	}
}
