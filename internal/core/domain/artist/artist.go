package artist

import (
	"time"

	"github.com/google/uuid"
)

// Artist is a performer profile surfaced on the marketplace read paths.
type Artist struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Genre      string    `json:"genre" db:"genre"`
	City       string    `json:"city" db:"city"`
	HourlyRate float64   `json:"hourlyRate" db:"hourly_rate"`
	Rating     float64   `json:"rating" db:"rating"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// SearchQuery filters artist listings. Zero values mean "no constraint".
type SearchQuery struct {
	Genre     string  `json:"genre,omitempty"`
	City      string  `json:"city,omitempty"`
	MinRating float64 `json:"minRating,omitempty"`
	Page      int     `json:"page,omitempty"`
	PerPage   int     `json:"perPage,omitempty"`
}
