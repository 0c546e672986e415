// Package database opens the backing stores with bounded connect retries.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"mangashelf/internal/logging"
)

const pingTimeout = 2 * time.Second

// retry runs fn up to attempts times with doubling waits starting at base.
func retry(ctx context.Context, attempts int, base time.Duration, what string, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			wait := base << uint(i-1)
			logging.Warn().Err(err).Str("store", what).Int("attempt", i+1).Dur("backoff", wait).Msg("store not reachable, retrying")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%s unreachable after %d attempts: %w", what, attempts, err)
}

func OpenPostgres(ctx context.Context, dsn string, attempts int) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	err = retry(ctx, attempts, 500*time.Millisecond, "postgres", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return pool.Ping(pingCtx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}

	logging.Info().Str("dsn", RedactDSN(dsn)).Msg("database connection OK")
	return pool, nil
}

func OpenMongo(ctx context.Context, uri, dbName string, attempts int) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("create mongo client: %w", err)
	}

	err = retry(ctx, attempts, 500*time.Millisecond, "mongo", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo (%s): %w", RedactDSN(uri), err)
	}

	logging.Info().Str("uri", RedactDSN(uri)).Str("database", dbName).Msg("mongo connection OK")
	return client, client.Database(dbName), nil
}

// RedactDSN hides the credentials section of a connection URL.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
