package kitsu

import (
	"strconv"
	"strings"
)

// Manga is one resource object from a JSON:API manga collection.
type Manga struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes MangaAttributes `json:"attributes"`
}

type MangaAttributes struct {
	Slug           string       `json:"slug"`
	CanonicalTitle string       `json:"canonicalTitle"`
	Titles         Titles       `json:"titles"`
	Synopsis       string       `json:"synopsis"`
	AverageRating  *string      `json:"averageRating"` // "85.23", null when unrated
	PosterImage    *PosterImage `json:"posterImage"`
	Status         string       `json:"status"`
	StartDate      string       `json:"startDate"`
}

type Titles struct {
	En   string `json:"en"`
	EnJp string `json:"en_jp"`
	JaJp string `json:"ja_jp"`
}

type PosterImage struct {
	Tiny     string `json:"tiny"`
	Small    string `json:"small"`
	Medium   string `json:"medium"`
	Large    string `json:"large"`
	Original string `json:"original"`
}

// DisplayTitle prefers the romanized title, then English, then the canonical title.
func (m Manga) DisplayTitle() string {
	a := m.Attributes
	switch {
	case a.Titles.EnJp != "":
		return a.Titles.EnJp
	case a.Titles.En != "":
		return a.Titles.En
	default:
		return a.CanonicalTitle
	}
}

func (m Manga) SmallPoster() string {
	if m.Attributes.PosterImage == nil {
		return ""
	}
	return m.Attributes.PosterImage.Small
}

// AverageRating returns the 0-100 community rating. ok is false when the
// rating is missing or unparsable.
func (m Manga) AverageRating() (float64, bool) {
	if m.Attributes.AverageRating == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*m.Attributes.AverageRating), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type Category struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Attributes CategoryAttributes `json:"attributes"`
}

type CategoryAttributes struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type collection[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
}

// SearchResult is one page of a text search together with the total hit count.
type SearchResult struct {
	Items []Manga
	Total int
}

// CategorySlug converts a display genre ("Slice of Life") to the category
// slug the filter expects ("slice-of-life").
func CategorySlug(genre string) string {
	return strings.Join(strings.Fields(strings.ToLower(genre)), "-")
}
