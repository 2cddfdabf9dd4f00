package venue

import (
	"time"

	"github.com/google/uuid"
)

// Venue is a bookable location profile.
type Venue struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	City      string    `json:"city" db:"city"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Rating    float64   `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
