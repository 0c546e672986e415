package main

import (
	"context"
	"flag"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"mangashelf/internal/config"
	"mangashelf/internal/library"
	"mangashelf/internal/logging"
	"mangashelf/internal/platform/database"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()
	dir := migrationsDir()

	if *command == "create" {
		if *name == "" {
			logging.Fatal().Msg("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			logging.Fatal().Err(err).Msg("failed to create migration")
		}
		logging.Info().Str("name", *name).Msg("migration created")
		return
	}

	if cfg.Storage.Driver == config.DriverMongo {
		if err := ensureMongoIndexes(ctx, cfg.Storage); err != nil {
			logging.Fatal().Err(err).Msg("failed to ensure mongo indexes")
		}
		logging.Info().Msg("mongo indexes ensured")
		return
	}

	pool, err := database.OpenPostgres(ctx, cfg.Storage.PostgresDSN, cfg.Storage.ConnectAttempts)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", database.RedactDSN(cfg.Storage.PostgresDSN)).Msg("failed to connect to database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		logging.Fatal().Err(err).Msg("failed to set dialect")
	}

	switch *command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			logging.Fatal().Err(err).Msg("failed to run migrations")
		}
		logging.Info().Msg("migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			logging.Fatal().Err(err).Msg("failed to rollback migrations")
		}
		logging.Info().Msg("migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			logging.Fatal().Err(err).Msg("failed to check migration status")
		}
	default:
		logging.Error().Str("command", *command).Msg("unknown command, use: up, down, status, create")
		os.Exit(2)
	}
}

// ensureMongoIndexes is the mongo counterpart of "up": the document store
// has no schema, only the unique (userId, kitsuId) index.
func ensureMongoIndexes(ctx context.Context, sc config.StorageConfig) error {
	client, db, err := database.OpenMongo(ctx, sc.MongoURI, sc.MongoDatabase, sc.ConnectAttempts)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	return library.NewMongoRepo(db, sc.QueryTimeout).EnsureIndexes(ctx)
}
