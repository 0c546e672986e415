package recommend

import (
	"context"
	"fmt"

	"mangashelf/internal/metrics"
	"mangashelf/internal/platform/kitsu"
)

// CategorySource serves one rating-ordered page of a catalog category.
type CategorySource interface {
	ByCategory(ctx context.Context, category string, limit, offset int) ([]kitsu.Manga, error)
}

type DigRequest struct {
	Genre       string
	Owned       map[string]struct{}
	Quota       int
	PageSize    int
	MaxAttempts int
}

// Dig pages through a category collecting items not in Owned. It stops when
// Quota items are collected, when the catalog returns an empty page, or after
// MaxAttempts pages, whichever comes first. Any fetch error aborts the dig and
// nothing collected so far is returned.
func Dig(ctx context.Context, src CategorySource, req DigRequest) ([]kitsu.Manga, error) {
	var (
		found  []kitsu.Manga
		offset int
		pages  int
	)
	defer func() { metrics.DigPages.Observe(float64(pages)) }()

	for pages < req.MaxAttempts {
		page, err := src.ByCategory(ctx, req.Genre, req.PageSize, offset)
		pages++
		if err != nil {
			return nil, fmt.Errorf("dig %s page %d: %w", req.Genre, pages, err)
		}
		if len(page) == 0 {
			break
		}

		for _, m := range page {
			if _, owned := req.Owned[m.ID]; owned {
				continue
			}
			found = append(found, m)
		}
		if len(found) >= req.Quota {
			break
		}
		offset += req.PageSize
	}
	return found, nil
}
