package kvstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jhoicas/inventory-system/internal/domain/repository"
	"github.com/jhoicas/inventory-system/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-system/internal/infrastructure/redis"
	"github.com/jhoicas/inventory-system/internal/infrastructure/sqlstore"
	"github.com/jhoicas/inventory-system/pkg/config"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open construye el backend indicado por cfg.Store.Driver. El io.Closer libera
// conexiones y debe llamarse después del Flush de los stores.
func Open(ctx context.Context, cfg *config.Config) (repository.KVStore, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return NewMemory(), nopCloser, nil

	case config.DriverFile:
		store, err := NewOSFile(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("kvstore postgres: %w", err)
		}
		store, err := postgres.NewKVRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("kvstore postgres: %w", err)
		}
		return store, closerFunc(func() error { pool.Close(); return nil }), nil

	case config.DriverRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("kvstore redis: %w", err)
		}
		return redis.NewKVStore(client, cfg.Redis.Prefix), client, nil

	case config.DriverSQLite:
		dsn := cfg.Store.SQLDSN
		if dsn == "" {
			dsn = filepath.Join(cfg.Store.Path, "inventory.db")
		}
		store, err := sqlstore.Open(ctx, sqlstore.SQLite, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("kvstore sqlite: %w", err)
		}
		return store, store, nil

	case config.DriverMySQL:
		store, err := sqlstore.Open(ctx, sqlstore.MySQL, cfg.Store.SQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("kvstore mysql: %w", err)
		}
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("kvstore: driver desconocido %q", cfg.Store.Driver)
}
