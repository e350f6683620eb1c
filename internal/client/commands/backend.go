package commands

import (
	"context"
	"fmt"

	filestore "notasapp/internal/client/adapters/store/file"
	"notasapp/internal/client/adapters/store/keyring"
	"notasapp/internal/client/adapters/store/memory"
	pgstore "notasapp/internal/client/adapters/store/postgres"
	redisstore "notasapp/internal/client/adapters/store/redis"
	"notasapp/internal/client/config"
	"notasapp/internal/client/ports/store"
	"notasapp/pkg/db/postgres"
	"notasapp/pkg/db/redis"
)

// OpenStore открывает хранилище, выбранное в конфигурации.
func OpenStore(ctx context.Context, cfg *config.Config) (store.BlobStore, error) {
	s, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Store.TokenKeyring {
		return keyring.New(s, keyring.DefaultService, cfg.Store.Profile), nil
	}
	return s, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (store.BlobStore, error) {
	sc := cfg.Store

	switch sc.Backend {
	case config.BackendMemory:
		return memory.New(), nil

	case config.BackendFile:
		s, err := filestore.New(sc.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendRedis:
		client, err := redis.Connect(ctx, &redis.Config{
			Host:     sc.Redis.Host,
			Port:     sc.Redis.Port,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
			PoolSize: sc.Redis.PoolSize,
			Timeout:  sc.Redis.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return redisstore.New(client, sc.KeyPrefix()), nil

	case config.BackendPostgres:
		db, err := postgres.New(ctx, postgres.Config{
			DSN:     sc.Postgres.GetDSN(),
			MinConn: sc.Postgres.MinConn,
			MaxConn: sc.Postgres.MaxConn,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, sc.Postgres.GetConnectionURL(), sc.Postgres.Migrations); err != nil {
			db.Close(ctx)
			return nil, err
		}
		return pgstore.New(db.Pool(), sc.Profile), nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, sc.Backend)
	}
}
