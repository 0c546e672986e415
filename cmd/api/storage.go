package main

import (
	"context"
	"fmt"

	"mangashelf/internal/config"
	"mangashelf/internal/library"
	"mangashelf/internal/platform/database"
	"mangashelf/internal/user"
)

// storage bundles the repositories for the configured driver.
type storage struct {
	library library.Repository
	users   user.Repository // nil when the driver has no account store
	ping    func(ctx context.Context) error
	close   func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	sc := cfg.Storage

	switch sc.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, sc.PostgresDSN, sc.ConnectAttempts)
		if err != nil {
			return nil, err
		}
		return &storage{
			library: library.NewPostgresRepo(pool, sc.QueryTimeout),
			users:   user.NewPostgresRepo(pool, sc.QueryTimeout),
			ping:    pool.Ping,
			close:   pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := database.OpenMongo(ctx, sc.MongoURI, sc.MongoDatabase, sc.ConnectAttempts)
		if err != nil {
			return nil, err
		}
		repo := library.NewMongoRepo(db, sc.QueryTimeout)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return &storage{
			library: repo,
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", sc.Driver)
	}
}
