package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/lettermill/newsletter-api/configs"
	"github.com/lettermill/newsletter-api/internal/application/services"
	"github.com/lettermill/newsletter-api/internal/core/ports"
	"github.com/lettermill/newsletter-api/internal/infrastructure/db"
	"github.com/lettermill/newsletter-api/internal/infrastructure/email"
	"github.com/lettermill/newsletter-api/internal/infrastructure/health"
	"github.com/lettermill/newsletter-api/internal/infrastructure/httpserver"
	"github.com/lettermill/newsletter-api/internal/infrastructure/redis"
	"github.com/lettermill/newsletter-api/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting newsletter API...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Subscription store with a read-through cache on token resolution
	redisCache := redis.NewRedisCache(redisClient, "newsletter")
	baseSubscriptionRepo := repositories.NewSubscriptionRepository(database, logger)
	subscriptionRepo := repositories.NewCachingSubscriptionRepository(baseSubscriptionRepo, redisCache, cfg.Redis.TokenCacheTTL, logger)

	// Outbound email delivery
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		BaseURL:        cfg.Email.BaseURL,
	}
	emailClient, err := email.NewSendGridClient(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email client:", err)
	}

	// Wire services with their repository dependencies
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, emailClient, logger)
	newsletterService := services.NewNewsletterService(subscriptionRepo, emailClient, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		SubscriptionService: subscriptionService,
		NewsletterService:   newsletterService,
		HealthCheckers:      hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
