package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/booking-platform/internal/core/domain/artist"
	tieredcache "github.com/stagelink/booking-platform/internal/infrastructure/cache"
	"github.com/stagelink/booking-platform/internal/infrastructure/memory"
)

type artistServiceStub struct {
	updated *artist.Artist
}

func (s *artistServiceStub) GetAll(ctx context.Context) ([]artist.Artist, error) { return nil, nil }
func (s *artistServiceStub) GetByID(ctx context.Context, id uuid.UUID) (*artist.Artist, error) {
	return nil, nil
}
func (s *artistServiceStub) Search(ctx context.Context, q artist.SearchQuery) ([]artist.Artist, error) {
	return nil, nil
}
func (s *artistServiceStub) Update(ctx context.Context, a *artist.Artist) error {
	s.updated = a
	return nil
}

func TestUpdateArtist_DropsCachedListingResponses(t *testing.T) {
	ctx := context.Background()
	local := memory.NewStore(0, nil)
	t.Cleanup(local.Close)
	store := tieredcache.NewTiered(local, nil, logrus.New())
	store.Initialize(ctx)

	// Responses cached by the route-level middleware before the update.
	store.Set(ctx, "GET:/api/v1/artists?page=1", []byte("[]"), time.Minute)
	store.Set(ctx, "GET:/api/v1/artists/search?genre=jazz", []byte("[]"), time.Minute)
	store.Set(ctx, "GET:/api/v1/venues", []byte("[]"), time.Minute)

	svc := &artistServiceStub{}
	s := &Server{
		echo:          echo.New(),
		logger:        logrus.New(),
		cacheStore:    store,
		artistService: svc,
	}

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/artists/"+id.String(),
		strings.NewReader(`{"name":"Nina Simone","genre":"jazz"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	require.NoError(t, s.updateArtist(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated)
	assert.Equal(t, id, svc.updated.ID)

	_, ok := store.Get(ctx, "GET:/api/v1/artists?page=1")
	assert.False(t, ok, "cached listing must not outlive the update")
	_, ok = store.Get(ctx, "GET:/api/v1/artists/search?genre=jazz")
	assert.False(t, ok, "cached search results must not outlive the update")
	_, ok = store.Get(ctx, "GET:/api/v1/venues")
	assert.True(t, ok, "venue responses are untouched")
}
