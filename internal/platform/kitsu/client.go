package kitsu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"mangashelf/internal/config"
	"mangashelf/internal/logging"
	"mangashelf/internal/metrics"
)

const mediaType = "application/vnd.api+json"

// StatusError reports a non-200 response from the catalog.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(cfg config.KitsuConfig) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:  cfg.UserAgent,
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
	}
}

// ByCategory fetches one page of a category ordered by average rating, best first.
func (c *Client) ByCategory(ctx context.Context, category string, limit, offset int) ([]Manga, error) {
	q := url.Values{}
	q.Set("filter[categories]", CategorySlug(category))
	q.Set("sort", "-averageRating")
	q.Set("page[limit]", strconv.Itoa(limit))
	q.Set("page[offset]", strconv.Itoa(offset))

	var res collection[Manga]
	if err := c.get(ctx, "category", "/manga?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("fetch category %q offset %d: %w", category, offset, err)
	}
	return res.Data, nil
}

func (c *Client) Trending(ctx context.Context, limit int) ([]Manga, error) {
	var res collection[Manga]
	if err := c.get(ctx, "trending", "/trending/manga?limit="+strconv.Itoa(limit), &res); err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	return res.Data, nil
}

func (c *Client) Search(ctx context.Context, text string, limit, offset int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("filter[text]", text)
	q.Set("page[limit]", strconv.Itoa(limit))
	q.Set("page[offset]", strconv.Itoa(offset))

	var res collection[Manga]
	if err := c.get(ctx, "search", "/manga?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}
	return &SearchResult{Items: res.Data, Total: res.Meta.Count}, nil
}

// Categories returns the category titles attached to a manga.
func (c *Client) Categories(ctx context.Context, mangaID string) ([]string, error) {
	var res collection[Category]
	path := "/manga/" + url.PathEscape(mangaID) + "/categories?page[limit]=20"
	if err := c.get(ctx, "categories", path, &res); err != nil {
		return nil, fmt.Errorf("fetch categories for %s: %w", mangaID, err)
	}

	titles := make([]string, 0, len(res.Data))
	for _, cat := range res.Data {
		if cat.Attributes.Title != "" {
			titles = append(titles, cat.Attributes.Title)
		}
	}
	return titles, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, target interface{}) error {
	start := time.Now()
	err := c.do(ctx, c.baseURL+path, target)
	metrics.CatalogDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.CatalogRequests.WithLabelValues(endpoint, outcome).Inc()
	return err
}

func (c *Client) do(ctx context.Context, u string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// 1s, 2s, 4s...
			wait := c.backoff << uint(i-1)
			logging.Ctx(ctx).Debug().Err(lastErr).Int("attempt", i).Dur("backoff", wait).Msg("retrying kitsu request")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.fetch(ctx, u, target)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if c.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) fetch(ctx context.Context, u string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", mediaType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
