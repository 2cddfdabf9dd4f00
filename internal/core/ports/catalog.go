package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/stagelink/booking-platform/internal/core/domain/artist"
	"github.com/stagelink/booking-platform/internal/core/domain/venue"
)

// ArtistRepository is the persistence contract for artist profiles.
type ArtistRepository interface {
	GetAll(ctx context.Context) ([]artist.Artist, error)
	GetByID(ctx context.Context, id uuid.UUID) (*artist.Artist, error)
	Search(ctx context.Context, q artist.SearchQuery) ([]artist.Artist, error)
	Update(ctx context.Context, a *artist.Artist) error
}

// VenueRepository is the persistence contract for venue profiles.
type VenueRepository interface {
	GetAll(ctx context.Context) ([]venue.Venue, error)
	GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error)
}

// ArtistService is the read-path surface exposed to HTTP handlers.
type ArtistService interface {
	GetAll(ctx context.Context) ([]artist.Artist, error)
	GetByID(ctx context.Context, id uuid.UUID) (*artist.Artist, error)
	Search(ctx context.Context, q artist.SearchQuery) ([]artist.Artist, error)
	Update(ctx context.Context, a *artist.Artist) error
}

// VenueService is the read-path surface exposed to HTTP handlers.
type VenueService interface {
	GetAll(ctx context.Context) ([]venue.Venue, error)
	GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error)
}
