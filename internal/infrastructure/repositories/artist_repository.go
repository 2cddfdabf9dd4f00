package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/domain/artist"
	"github.com/stagelink/booking-platform/internal/core/ports"
	"github.com/stagelink/booking-platform/internal/infrastructure/db"
)

const defaultPerPage = 20

// ArtistRepository implements the artist repository interface on Postgres.
type ArtistRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewArtistRepository creates a new artist repository
func NewArtistRepository(database *db.Database, logger *logrus.Logger) ports.ArtistRepository {
	return &ArtistRepository{
		db:     database,
		logger: logger,
	}
}

// GetAll retrieves all artists ordered by rating
func (r *ArtistRepository) GetAll(ctx context.Context) ([]artist.Artist, error) {
	var artists []artist.Artist
	query := `
		SELECT id, name, genre, city, hourly_rate, rating, created_at, updated_at
		FROM artists
		ORDER BY rating DESC, name ASC`

	if err := r.db.DB.SelectContext(ctx, &artists, query); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list artists")
		}
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

// GetByID retrieves an artist by ID
func (r *ArtistRepository) GetByID(ctx context.Context, id uuid.UUID) (*artist.Artist, error) {
	var a artist.Artist
	query := `
		SELECT id, name, genre, city, hourly_rate, rating, created_at, updated_at
		FROM artists
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("artist with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"artist_id": id}).WithError(err).Error("db: failed to get artist by ID")
		}
		return nil, fmt.Errorf("failed to get artist by ID: %w", err)
	}
	return &a, nil
}

// Search filters artists by genre, city and minimum rating with pagination.
func (r *ArtistRepository) Search(ctx context.Context, q artist.SearchQuery) ([]artist.Artist, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	i := 1
	if q.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("genre = $%d", i))
		args = append(args, q.Genre)
		i++
	}
	if q.City != "" {
		conditions = append(conditions, fmt.Sprintf("city = $%d", i))
		args = append(args, q.City)
		i++
	}
	if q.MinRating > 0 {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", i))
		args = append(args, q.MinRating)
		i++
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)

	query := fmt.Sprintf(`
		SELECT id, name, genre, city, hourly_rate, rating, created_at, updated_at
		FROM artists
		WHERE %s
		ORDER BY rating DESC, name ASC
		LIMIT $%d OFFSET $%d`, strings.Join(conditions, " AND "), i, i+1)

	var artists []artist.Artist
	if err := r.db.DB.SelectContext(ctx, &artists, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to search artists")
		}
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	return artists, nil
}

// Update persists changes to an artist profile.
func (r *ArtistRepository) Update(ctx context.Context, a *artist.Artist) error {
	query := `
		UPDATE artists
		SET name = $2, genre = $3, city = $4, hourly_rate = $5, rating = $6, updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.DB.ExecContext(ctx, query, a.ID, a.Name, a.Genre, a.City, a.HourlyRate, a.Rating)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"artist_id": a.ID}).WithError(err).Error("db: failed to update artist")
		}
		return fmt.Errorf("failed to update artist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("artist with ID %s not found", a.ID)
	}
	return nil
}
