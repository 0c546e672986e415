package recommend

import (
	"sort"

	"mangashelf/internal/catalog"
	"mangashelf/internal/platform/kitsu"
)

// MasterGenres are always offered for selection, whatever the library holds.
var MasterGenres = []string{
	"Action", "Adventure", "Comedy", "Drama", "Fantasy", "Horror", "Mystery",
	"Psychological", "Romance", "Sci-fi", "Slice of life", "Sports",
	"Supernatural", "Thriller",
}

// Dedupe drops repeated ids, keeping the first occurrence in place.
func Dedupe(items []kitsu.Manga) []kitsu.Manga {
	seen := make(map[string]struct{}, len(items))
	out := make([]kitsu.Manga, 0, len(items))
	for _, m := range items {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Merge dedupes, caps and maps raw items into recommendation candidates.
func Merge(items []kitsu.Manga, limit int) []catalog.Candidate {
	items = Dedupe(items)
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]catalog.Candidate, 0, len(items))
	for _, m := range items {
		out = append(out, catalog.NewCandidate(m, catalog.StatusRecommended))
	}
	return out
}

func AvailableGenres(master []string, ranking []GenreScore) []string {
	set := make(map[string]struct{}, len(master)+len(ranking))
	for _, g := range master {
		if n := NormalizeGenre(g); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, gs := range ranking {
		if n := NormalizeGenre(gs.Genre); n != "" {
			set[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
