package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mangashelf/internal/logging"
)

// Service provides library business logic on top of a Repository.
type Service struct {
	repo   Repository
	genres GenreLookup
}

// NewService creates a library service. genres may be nil, in which case
// items saved without genres are stored without them.
func NewService(repo Repository, genres GenreLookup) *Service {
	return &Service{repo: repo, genres: genres}
}

func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.repo.List(ctx, userID)
}

// Get returns the entry when it belongs to the given scope. The empty scope
// only sees entries saved without one.
func (s *Service) Get(ctx context.Context, userID, id string) (Entry, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if e.UserID != userID {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// OwnedIDs returns the set of Kitsu ids in the scope's library.
func (s *Service) OwnedIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		owned[e.KitsuID] = struct{}{}
	}
	return owned, nil
}

// Save stores a new candidate or updates an owned entry's progress.
func (s *Service) Save(ctx context.Context, userID string, d Draft, p Progress) (Entry, error) {
	if err := ValidateRating(p.Rating); err != nil {
		return Entry{}, err
	}
	if p.Status != "" && !p.Status.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
	}

	switch d := d.(type) {
	case NewCandidate:
		return s.create(ctx, userID, d, p)
	case OwnedEntry:
		return s.update(ctx, userID, d, p)
	default:
		return Entry{}, fmt.Errorf("unsupported draft %T", d)
	}
}

func (s *Service) create(ctx context.Context, userID string, c NewCandidate, p Progress) (Entry, error) {
	if strings.TrimSpace(c.KitsuID) == "" || strings.TrimSpace(c.Title) == "" {
		return Entry{}, errors.New("kitsuId and title are required")
	}
	if p.Status == "" {
		return Entry{}, fmt.Errorf("%w: status is required", ErrInvalidStatus)
	}

	genres := c.Genres
	if len(genres) == 0 && s.genres != nil {
		found, err := s.genres.Categories(ctx, c.KitsuID)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("kitsu_id", c.KitsuID).Msg("genre lookup failed, saving without genres")
		} else {
			genres = found
		}
	}
	if genres == nil {
		genres = []string{}
	}

	e := Entry{
		UserID:     userID,
		KitsuID:    c.KitsuID,
		Title:      c.Title,
		Genres:     genres,
		Status:     p.Status,
		Rating:     p.Rating,
		Synopsis:   c.Synopsis,
		CoverImage: c.CoverImage,
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) update(ctx context.Context, userID string, o OwnedEntry, p Progress) (Entry, error) {
	current, err := s.Get(ctx, userID, o.ID)
	if err != nil {
		return Entry{}, err
	}

	status := current.Status
	if p.Status != "" {
		status = p.Status
	}
	rating := current.Rating
	if p.Rating != nil {
		rating = p.Rating
	}
	return s.repo.UpdateProgress(ctx, o.ID, status, rating)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
