package recommend

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangashelf/internal/platform/kitsu"
)

type pageCall struct {
	category      string
	limit, offset int
}

// fakeCatalog serves pages from a function and records every call.
type fakeCatalog struct {
	mu       sync.Mutex
	calls    []pageCall
	page     func(offset, limit int) ([]kitsu.Manga, error)
	trending []kitsu.Manga
	trendErr error
	// onTrending, when set, runs before Trending answers.
	onTrending func() error
}

func (f *fakeCatalog) ByCategory(_ context.Context, category string, limit, offset int) ([]kitsu.Manga, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pageCall{category: category, limit: limit, offset: offset})
	f.mu.Unlock()
	return f.page(offset, limit)
}

func (f *fakeCatalog) Trending(_ context.Context, limit int) ([]kitsu.Manga, error) {
	if f.onTrending != nil {
		if err := f.onTrending(); err != nil {
			return nil, err
		}
	}
	if f.trendErr != nil {
		return nil, f.trendErr
	}
	if len(f.trending) > limit {
		return f.trending[:limit], nil
	}
	return f.trending, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func item(id string) kitsu.Manga {
	return kitsu.Manga{ID: id, Attributes: kitsu.MangaAttributes{CanonicalTitle: "Manga " + id}}
}

// sequential ids starting at offset; total < 0 means the catalog never runs dry.
func seqPages(total int) func(offset, limit int) ([]kitsu.Manga, error) {
	return func(offset, limit int) ([]kitsu.Manga, error) {
		var out []kitsu.Manga
		for i := offset; i < offset+limit; i++ {
			if total >= 0 && i >= total {
				break
			}
			out = append(out, item(strconv.Itoa(i)))
		}
		return out, nil
	}
}

func defaultDig(genre string, owned map[string]struct{}) DigRequest {
	return DigRequest{Genre: genre, Owned: owned, Quota: 15, PageSize: 20, MaxAttempts: 6}
}

func TestDig_QuotaReachedOnFirstPage(t *testing.T) {
	cat := &fakeCatalog{page: seqPages(-1)}

	got, err := Dig(context.Background(), cat, defaultDig("Action", nil))
	require.NoError(t, err)

	assert.Len(t, got, 20)
	assert.Equal(t, []pageCall{{category: "Action", limit: 20, offset: 0}}, cat.calls)
}

func TestDig_ExcludesOwned(t *testing.T) {
	cat := &fakeCatalog{page: func(offset, limit int) ([]kitsu.Manga, error) {
		if offset > 0 {
			return nil, nil
		}
		return []kitsu.Manga{item("1"), item("123"), item("7")}, nil
	}}

	got, err := Dig(context.Background(), cat, defaultDig("Action", map[string]struct{}{"123": {}}))
	require.NoError(t, err)

	for _, m := range got {
		assert.NotEqual(t, "123", m.ID)
	}
	assert.Len(t, got, 2)
}

func TestDig_UnderQuotaReturnsWhatExists(t *testing.T) {
	cat := &fakeCatalog{page: seqPages(7)}

	got, err := Dig(context.Background(), cat, defaultDig("Horror", nil))
	require.NoError(t, err)

	assert.Len(t, got, 7)
	// first page short but non-empty, second page empty
	assert.Equal(t, 2, cat.callCount())
}

func TestDig_NeverEmptyStopsAtMaxAttempts(t *testing.T) {
	owned := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		owned[strconv.Itoa(i)] = struct{}{}
	}
	cat := &fakeCatalog{page: seqPages(-1)}

	got, err := Dig(context.Background(), cat, defaultDig("Action", owned))
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, 6, cat.callCount())
	for i, c := range cat.calls {
		assert.Equal(t, i*20, c.offset)
	}
}

func TestDig_PagesUntilQuota(t *testing.T) {
	// 18 of every 20 items are owned, so each page yields 2 survivors.
	owned := map[string]struct{}{}
	for i := 0; i < 200; i++ {
		if i%20 >= 2 {
			owned[strconv.Itoa(i)] = struct{}{}
		}
	}
	cat := &fakeCatalog{page: seqPages(-1)}

	got, err := Dig(context.Background(), cat, DigRequest{Genre: "Drama", Owned: owned, Quota: 5, PageSize: 20, MaxAttempts: 6})
	require.NoError(t, err)

	assert.Equal(t, 3, cat.callCount())
	assert.Len(t, got, 6)
}

func TestDig_ErrorDiscardsProgress(t *testing.T) {
	boom := errors.New("upstream 503")
	cat := &fakeCatalog{page: func(offset, limit int) ([]kitsu.Manga, error) {
		if offset == 0 {
			return []kitsu.Manga{item("1")}, nil
		}
		return nil, boom
	}}

	got, err := Dig(context.Background(), cat, defaultDig("Action", nil))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}
