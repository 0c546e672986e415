package kitsu

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"mangashelf/internal/logging"
	"mangashelf/internal/metrics"
)

// BreakerClient guards a Client with a circuit breaker so a failing catalog
// is not hammered by every incoming request.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

func NewBreakerClient(client *Client) *BreakerClient {
	name := "kitsu-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about upstream health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(metrics.BreakerStateValue(to))
		},
	})

	return &BreakerClient{client: client, cb: cb, name: name}
}

func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func execute[T any](b *BreakerClient, endpoint string, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CatalogRequests.WithLabelValues(endpoint, "rejected").Inc()
		}
		return zero, err
	}
	return res.(T), nil
}

func (b *BreakerClient) ByCategory(ctx context.Context, category string, limit, offset int) ([]Manga, error) {
	return execute(b, "category", func() ([]Manga, error) {
		return b.client.ByCategory(ctx, category, limit, offset)
	})
}

func (b *BreakerClient) Trending(ctx context.Context, limit int) ([]Manga, error) {
	return execute(b, "trending", func() ([]Manga, error) {
		return b.client.Trending(ctx, limit)
	})
}

func (b *BreakerClient) Search(ctx context.Context, text string, limit, offset int) (*SearchResult, error) {
	return execute(b, "search", func() (*SearchResult, error) {
		return b.client.Search(ctx, text, limit, offset)
	})
}

func (b *BreakerClient) Categories(ctx context.Context, mangaID string) ([]string, error) {
	return execute(b, "categories", func() ([]string, error) {
		return b.client.Categories(ctx, mangaID)
	})
}
