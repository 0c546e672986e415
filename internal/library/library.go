// Package library stores the manga a user has saved, with reading status
// and personal rating.
package library

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusReading    Status = "Reading"
	StatusCompleted  Status = "Completed"
	StatusPlanToRead Status = "Plan-to-read"
)

var (
	ErrNotFound      = errors.New("library entry not found")
	ErrAlreadyOwned  = errors.New("manga already in library")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidRating = errors.New("rating must be between 1 and 10")
)

// ParseStatus accepts any casing and the spaced "plan to read" form.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.Join(strings.Fields(s), "-"))
	switch norm {
	case "reading":
		return StatusReading, nil
	case "completed":
		return StatusCompleted, nil
	case "plan-to-read":
		return StatusPlanToRead, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusReading, StatusCompleted, StatusPlanToRead:
		return true
	}
	return false
}

type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	KitsuID    string    `json:"kitsuId"`
	Title      string    `json:"title"`
	Genres     []string  `json:"genres"`
	Status     Status    `json:"status"`
	Rating     *int      `json:"rating"`
	Synopsis   string    `json:"synopsis,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func ValidateRating(r *int) error {
	if r != nil && (*r < 1 || *r > 10) {
		return ErrInvalidRating
	}
	return nil
}
