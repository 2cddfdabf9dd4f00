package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) cacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cacheStore.Stats())
}

type invalidateRequest struct {
	Pattern string `json:"pattern"`
}

func (s *Server) invalidateCache(c echo.Context) error {
	var req invalidateRequest
	if err := c.Bind(&req); err != nil || req.Pattern == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pattern is required")
	}
	removed := s.cacheStore.DeletePattern(c.Request().Context(), req.Pattern)
	if s.logger != nil {
		s.logger.WithField("pattern", req.Pattern).WithField("removed", removed).Info("cache invalidated by pattern")
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) clearCache(c echo.Context) error {
	s.cacheStore.Clear(c.Request().Context())
	if s.logger != nil {
		s.logger.Info("cache cleared")
	}
	return c.NoContent(http.StatusNoContent)
}
