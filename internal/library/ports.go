package library

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=library

// Repository is the storage contract for library entries. An empty userID
// addresses the unscoped library.
type Repository interface {
	List(ctx context.Context, userID string) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Create(ctx context.Context, e *Entry) error
	UpdateProgress(ctx context.Context, id string, status Status, rating *int) (Entry, error)
	Delete(ctx context.Context, id string) error
}

// GenreLookup resolves catalog genres for an item saved without any.
type GenreLookup interface {
	Categories(ctx context.Context, kitsuID string) ([]string, error)
}
