// Package catalog maps Kitsu items into the shape the service returns and
// proxies catalog text search.
package catalog

import (
	"math"

	"mangashelf/internal/platform/kitsu"
)

// StatusRecommended marks items produced by the recommendation engine.
const StatusRecommended = "Recommended"

type Candidate struct {
	KitsuID    string `json:"kitsuId"`
	Title      string `json:"title"`
	CoverImage string `json:"coverImage,omitempty"`
	Synopsis   string `json:"synopsis,omitempty"`
	Status     string `json:"status,omitempty"`
	Rating     *int   `json:"rating"`
}

// NewCandidate converts a raw catalog item. The 0-100 community rating is
// scaled to 0-10, rounding halves up.
func NewCandidate(m kitsu.Manga, status string) Candidate {
	c := Candidate{
		KitsuID:    m.ID,
		Title:      m.DisplayTitle(),
		CoverImage: m.SmallPoster(),
		Synopsis:   m.Attributes.Synopsis,
		Status:     status,
	}
	if avg, ok := m.AverageRating(); ok && avg >= 0 {
		r := int(math.Round(avg / 10))
		c.Rating = &r
	}
	return c
}
