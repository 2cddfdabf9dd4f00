package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/domain/artist"
	"github.com/stagelink/booking-platform/internal/core/domain/venue"
	"github.com/stagelink/booking-platform/internal/core/ports"
)

// ArtistService serves the artist read path through the cache policy layer.
type ArtistService struct {
	repo   ports.ArtistRepository
	cache  *CachePolicyService
	logger *logrus.Logger
}

func NewArtistService(repo ports.ArtistRepository, cache *CachePolicyService, logger *logrus.Logger) *ArtistService {
	return &ArtistService{repo: repo, cache: cache, logger: logger}
}

func (s *ArtistService) GetAll(ctx context.Context) ([]artist.Artist, error) {
	return CachedCall(ctx, s.cache, "artist.getAll", nil, s.repo.GetAll)
}

func (s *ArtistService) GetByID(ctx context.Context, id uuid.UUID) (*artist.Artist, error) {
	return CachedCall(ctx, s.cache, "artist.getById", map[string]string{"id": id.String()}, func(ctx context.Context) (*artist.Artist, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *ArtistService) Search(ctx context.Context, q artist.SearchQuery) ([]artist.Artist, error) {
	return CachedCall(ctx, s.cache, "artist.search", q, func(ctx context.Context) ([]artist.Artist, error) {
		return s.repo.Search(ctx, q)
	})
}

// Update writes through to the repository and invalidates every artist-family
// cache entry, listings and searches included.
func (s *ArtistService) Update(ctx context.Context, a *artist.Artist) error {
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	removed := s.cache.InvalidateCachePattern(ctx, "^artist")
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"artist_id": a.ID, "invalidated": removed}).Info("artist updated; cache invalidated")
	}
	return nil
}

// VenueService serves the venue read path through the cache policy layer.
type VenueService struct {
	repo  ports.VenueRepository
	cache *CachePolicyService
}

func NewVenueService(repo ports.VenueRepository, cache *CachePolicyService) *VenueService {
	return &VenueService{repo: repo, cache: cache}
}

func (s *VenueService) GetAll(ctx context.Context) ([]venue.Venue, error) {
	return CachedCall(ctx, s.cache, "venue.getAll", nil, s.repo.GetAll)
}

func (s *VenueService) GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	return CachedCall(ctx, s.cache, "venue.getById", map[string]string{"id": id.String()}, func(ctx context.Context) (*venue.Venue, error) {
		return s.repo.GetByID(ctx, id)
	})
}
