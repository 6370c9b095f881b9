package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lettermill/newsletter-api/internal/core/ports"
	customMiddleware "github.com/lettermill/newsletter-api/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	SubscriptionService ports.SubscriptionService
	NewsletterService   ports.NewsletterService
	HealthCheckers      []ports.HealthChecker
}

type Server struct {
	echo            *echo.Echo
	config          *ServerConfig
	logger          *logrus.Logger
	subscriptionSvc ports.SubscriptionService
	newsletterSvc   ports.NewsletterService
	middleware      *customMiddleware.MiddlewareCollection
	healthCheckers  []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.Validator = NewRequestValidator()

	server := &Server{
		echo:            e,
		config:          serverConfig,
		logger:          logger,
		subscriptionSvc: deps.SubscriptionService,
		newsletterSvc:   deps.NewsletterService,
		healthCheckers:  deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
