package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lettermill/newsletter-api/internal/core/domain/newsletter"
)

// Newsletter handlers
func (s *Server) publishNewsletter(c echo.Context) error {
	var issue newsletter.Issue
	if err := c.Bind(&issue); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&issue); err != nil {
		return err
	}

	if err := s.newsletterSvc.Publish(c.Request().Context(), &issue); err != nil {
		s.logger.WithError(err).Error("failed to publish newsletter issue")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to publish newsletter issue")
	}

	return c.NoContent(http.StatusOK)
}
