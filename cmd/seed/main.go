package main

import (
	"context"
	"errors"
	"flag"

	"mangashelf/internal/config"
	"mangashelf/internal/library"
	"mangashelf/internal/logging"
	"mangashelf/internal/platform/database"
)

type seedEntry struct {
	candidate library.NewCandidate
	status    library.Status
	rating    int
}

func demoLibrary() []seedEntry {
	return []seedEntry{
		{library.NewCandidate{KitsuID: "8", Title: "Berserk", Genres: []string{"Action", "Adventure", "Drama", "Fantasy", "Horror"}}, library.StatusReading, 10},
		{library.NewCandidate{KitsuID: "14916", Title: "Vagabond", Genres: []string{"Action", "Adventure", "Drama"}}, library.StatusCompleted, 9},
		{library.NewCandidate{KitsuID: "2", Title: "Monster", Genres: []string{"Drama", "Mystery", "Psychological", "Thriller"}}, library.StatusCompleted, 9},
		{library.NewCandidate{KitsuID: "1", Title: "Yotsuba&!", Genres: []string{"Comedy", "Slice of Life"}}, library.StatusReading, 7},
		{library.NewCandidate{KitsuID: "3", Title: "Pluto", Genres: []string{"Mystery", "Sci-Fi"}}, library.StatusPlanToRead, 0},
	}
}

func main() {
	userID := flag.String("user", "", "Library scope to seed (empty for the anonymous library)")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()
	repo, closeFn, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	defer closeFn()

	created, err := seed(ctx, library.NewService(repo, nil), *userID, demoLibrary())
	if err != nil {
		logging.Fatal().Err(err).Msg("seeding failed")
	}
	logging.Info().Int("created", created).Str("user_id", *userID).Msg("seed complete")
}

// seed saves every entry, skipping titles already in the library.
func seed(ctx context.Context, svc *library.Service, userID string, entries []seedEntry) (int, error) {
	created := 0
	for _, e := range entries {
		p := library.Progress{Status: e.status}
		if e.rating > 0 {
			r := e.rating
			p.Rating = &r
		}
		_, err := svc.Save(ctx, userID, e.candidate, p)
		switch {
		case errors.Is(err, library.ErrAlreadyOwned):
			logging.Debug().Str("title", e.candidate.Title).Msg("already seeded")
		case err != nil:
			return created, err
		default:
			created++
		}
	}
	return created, nil
}

func openRepository(ctx context.Context, sc config.StorageConfig) (library.Repository, func(), error) {
	if sc.Driver == config.DriverMongo {
		client, db, err := database.OpenMongo(ctx, sc.MongoURI, sc.MongoDatabase, sc.ConnectAttempts)
		if err != nil {
			return nil, nil, err
		}
		repo := library.NewMongoRepo(db, sc.QueryTimeout)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	}

	pool, err := database.OpenPostgres(ctx, sc.PostgresDSN, sc.ConnectAttempts)
	if err != nil {
		return nil, nil, err
	}
	return library.NewPostgresRepo(pool, sc.QueryTimeout), pool.Close, nil
}
