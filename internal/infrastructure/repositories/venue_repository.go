package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/domain/venue"
	"github.com/stagelink/booking-platform/internal/core/ports"
	"github.com/stagelink/booking-platform/internal/infrastructure/db"
)

// VenueRepository implements the venue repository interface on Postgres.
type VenueRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewVenueRepository creates a new venue repository
func NewVenueRepository(database *db.Database, logger *logrus.Logger) ports.VenueRepository {
	return &VenueRepository{
		db:     database,
		logger: logger,
	}
}

// GetAll retrieves all venues ordered by rating
func (r *VenueRepository) GetAll(ctx context.Context) ([]venue.Venue, error) {
	var venues []venue.Venue
	query := `
		SELECT id, name, city, capacity, rating, created_at, updated_at
		FROM venues
		ORDER BY rating DESC, name ASC`

	if err := r.db.DB.SelectContext(ctx, &venues, query); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list venues")
		}
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, nil
}

// GetByID retrieves a venue by ID
func (r *VenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	var v venue.Venue
	query := `
		SELECT id, name, city, capacity, rating, created_at, updated_at
		FROM venues
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &v, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("venue with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"venue_id": id}).WithError(err).Error("db: failed to get venue by ID")
		}
		return nil, fmt.Errorf("failed to get venue by ID: %w", err)
	}
	return &v, nil
}
