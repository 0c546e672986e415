package recommend

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"mangashelf/internal/library"
)

type GenreScore struct {
	Genre  string `json:"genre"`
	Weight int    `json:"weight"`
}

// NormalizeGenre lowercases a tag and upper-cases its first letter, so
// "ACTION", "action" and "Action" all land in the same bucket. Tags that are
// not valid UTF-8 normalize to "" and are skipped.
func NormalizeGenre(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !utf8.ValidString(s) {
		return ""
	}
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func StatusBonus(s library.Status) int {
	switch s {
	case library.StatusReading:
		return 5
	case library.StatusCompleted:
		return 3
	default:
		return 0
	}
}

// Weight is rating squared plus the status bonus. An unrated entry counts as 0.
func Weight(e library.Entry) int {
	r := 0
	if e.Rating != nil {
		r = *e.Rating
	}
	return r*r + StatusBonus(e.Status)
}

// ScoreGenres adds each entry's weight to every normalized tag it carries,
// so a tag repeated on one entry is counted each time, and ranks genres by
// weight, highest first. Ties keep first-seen order.
func ScoreGenres(entries []library.Entry) []GenreScore {
	index := make(map[string]int)
	var ranking []GenreScore

	for _, e := range entries {
		if len(e.Genres) == 0 {
			continue
		}
		w := Weight(e)
		for _, tag := range e.Genres {
			g := NormalizeGenre(tag)
			if g == "" {
				continue
			}
			if i, ok := index[g]; ok {
				ranking[i].Weight += w
				continue
			}
			index[g] = len(ranking)
			ranking = append(ranking, GenreScore{Genre: g, Weight: w})
		}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Weight > ranking[j].Weight
	})
	return ranking
}

// SelectTarget picks the genre to dig: the override when given, else the top
// of the ranking, else fallback.
func SelectTarget(override string, ranking []GenreScore, fallback string) string {
	if g := NormalizeGenre(override); g != "" {
		return g
	}
	if len(ranking) > 0 {
		return ranking[0].Genre
	}
	return fallback
}
