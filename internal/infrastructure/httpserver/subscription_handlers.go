package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lettermill/newsletter-api/internal/core/domain/subscriber"
	"github.com/lettermill/newsletter-api/internal/core/ports"
)

// Subscription handlers
func (s *Server) createSubscription(c echo.Context) error {
	var form struct {
		Email string `form:"email"`
		Name  string `form:"name"`
	}
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.subscriptionSvc.Subscribe(c.Request().Context(), form.Email, form.Name); err != nil {
		var validationErr *subscriber.ValidationError
		if errors.As(err, &validationErr) {
			return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
		}
		s.logger.WithError(err).Error("failed to create subscription")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create subscription")
	}

	return c.NoContent(http.StatusOK)
}

func (s *Server) confirmSubscription(c echo.Context) error {
	token := c.QueryParam("subscription_token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "subscription_token is required")
	}

	if err := s.subscriptionSvc.Confirm(c.Request().Context(), token); err != nil {
		if errors.Is(err, ports.ErrUnknownToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, ports.ErrUnknownToken.Error())
		}
		s.logger.WithError(err).Error("failed to confirm subscription")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to confirm subscription")
	}

	return c.NoContent(http.StatusOK)
}
