package recommend

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"mangashelf/internal/catalog"
	"mangashelf/internal/config"
	"mangashelf/internal/library"
	"mangashelf/internal/logging"
	"mangashelf/internal/metrics"
	"mangashelf/internal/platform/kitsu"
)

// LibraryReader returns the library snapshot a request is scored from.
type LibraryReader interface {
	List(ctx context.Context, userID string) ([]library.Entry, error)
}

type Catalog interface {
	CategorySource
	Trending(ctx context.Context, limit int) ([]kitsu.Manga, error)
}

type Result struct {
	SelectedGenre   string              `json:"selectedGenre"`
	AvailableGenres []string            `json:"availableGenres"`
	BasedOnTaste    []catalog.Candidate `json:"basedOnTaste"`
	Trending        []catalog.Candidate `json:"trending"`
}

type Service struct {
	lib     LibraryReader
	catalog Catalog
	cfg     config.RecommendConfig
}

func NewService(lib LibraryReader, cat Catalog, cfg config.RecommendConfig) *Service {
	return &Service{lib: lib, catalog: cat, cfg: cfg}
}

// Recommend scores the scope's library, digs the target genre and fetches
// trending titles concurrently, then merges both lists.
func (s *Service) Recommend(ctx context.Context, userID, override string) (*Result, error) {
	res, err := s.recommend(ctx, userID, override)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.Recommendations.WithLabelValues(outcome, strconv.FormatBool(NormalizeGenre(override) != "")).Inc()
	return res, err
}

func (s *Service) recommend(ctx context.Context, userID, override string) (*Result, error) {
	entries, err := s.lib.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	owned := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		owned[e.KitsuID] = struct{}{}
	}

	ranking := ScoreGenres(entries)
	target := SelectTarget(override, ranking, s.cfg.FallbackGenre)

	logging.Ctx(ctx).Debug().
		Str("genre", target).
		Int("library_size", len(entries)).
		Int("scored_genres", len(ranking)).
		Msg("digging recommendations")

	var dug, trending []kitsu.Manga
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dug, err = Dig(gctx, s.catalog, DigRequest{
			Genre:       target,
			Owned:       owned,
			Quota:       s.cfg.Quota,
			PageSize:    s.cfg.PageSize,
			MaxAttempts: s.cfg.MaxAttempts,
		})
		return err
	})
	g.Go(func() error {
		var err error
		trending, err = s.catalog.Trending(gctx, s.cfg.TrendingLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("recommend %s: %w", target, err)
	}

	return &Result{
		SelectedGenre:   target,
		AvailableGenres: AvailableGenres(MasterGenres, ranking),
		BasedOnTaste:    Merge(dug, s.cfg.ResultCap),
		Trending:        Merge(trending, s.cfg.ResultCap),
	}, nil
}
