package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	s.echo.POST("/subscriptions", s.createSubscription)
	// Confirmation links are clicked from mail clients (GET); POST is kept
	// for callers that confirm programmatically.
	s.echo.GET("/subscriptions/confirm", s.confirmSubscription)
	s.echo.POST("/subscriptions/confirm", s.confirmSubscription)

	s.echo.POST("/newsletters", s.publishNewsletter)
}
