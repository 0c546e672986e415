package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mangashelf/internal/platform/kitsu"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 20
)

var ErrEmptyQuery = errors.New("search query is required")

type Searcher interface {
	Search(ctx context.Context, text string, limit, offset int) (*kitsu.SearchResult, error)
}

// OwnedSource reports which catalog ids a library scope already holds.
type OwnedSource interface {
	OwnedIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

type SearchItem struct {
	Candidate
	Owned bool `json:"owned"`
}

type SearchPage struct {
	Items  []SearchItem `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

type Service struct {
	searcher Searcher
	owned    OwnedSource
}

func NewService(searcher Searcher, owned OwnedSource) *Service {
	return &Service{searcher: searcher, owned: owned}
}

// Search runs a text search and flags results already in the caller's library.
func (s *Service) Search(ctx context.Context, userID, q string, limit, offset int) (*SearchPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.searcher.Search(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}

	owned, err := s.owned.OwnedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load owned ids: %w", err)
	}

	items := make([]SearchItem, 0, len(res.Items))
	for _, m := range res.Items {
		_, has := owned[m.ID]
		items = append(items, SearchItem{Candidate: NewCandidate(m, ""), Owned: has})
	}
	return &SearchPage{Items: items, Total: res.Total, Limit: limit, Offset: offset}, nil
}
