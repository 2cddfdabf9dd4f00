package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	artists := api.Group("/artists")
	artists.GET("", s.listArtists, s.responseCache.Handler())
	artists.GET("/search", s.searchArtists, s.responseCache.Handler())
	artists.GET("/:id", s.getArtist)
	artists.PUT("/:id", s.updateArtist)

	venues := api.Group("/venues")
	venues.GET("", s.listVenues, s.responseCache.Handler())
	venues.GET("/:id", s.getVenue)

	admin := s.echo.Group("/admin")
	admin.GET("/metrics", s.metricsSnapshot)
	admin.GET("/metrics/slowest", s.slowestEndpoints)
	admin.GET("/metrics/popular", s.mostAccessedEndpoints)
	admin.GET("/metrics/errors", s.errorSummary)
	admin.GET("/cache/stats", s.cacheStats)
	admin.POST("/cache/invalidate", s.invalidateCache)
	admin.DELETE("/cache", s.clearCache)
}
