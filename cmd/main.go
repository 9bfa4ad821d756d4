package main

import (
	"path/filepath"

	"contact-service/internal/handler"
	"contact-service/internal/middleware"
	"contact-service/internal/repository"
	"contact-service/internal/upload"
	"contact-service/pkg/config"
	"contact-service/pkg/database"
	"contact-service/pkg/logger"
	"contact-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting contact service...", zap.String("environment", cfg.Server.Env))

	// Initialize database (now includes migrations automatically)
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Wire up the contact endpoints
	contacts := handler.NewContactHandler(
		repository.NewContactRepository(database.GetDB()),
		upload.NewFileStore(cfg.Upload.Dir),
	)

	// Initialize Echo framework
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("12M")) // Two 5 MiB images plus form fields
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(middleware.MetricsMiddleware)

	// API key gate in front of everything except the public paths
	e.Use(middleware.APIKeyAuth(
		middleware.StaticKeyVerifier(cfg.API.Key),
		"/", "/health", "/metrics", "/swagger", "/uploads",
	))

	// Public routes - no API key required
	e.GET("/", handler.Hello)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", prometheus.HandlerFunc())

	// Stored images are served straight from the upload root
	e.Static("/uploads", filepath.Join(cfg.Upload.Dir, "uploads"))

	// Contact routes
	api := e.Group("/api")
	api.GET("/contacts", contacts.List)
	api.GET("/contacts/:id", contacts.GetByID)
	api.POST("/contacts", contacts.Create)
	api.PUT("/contacts/:id", contacts.Update)
	api.DELETE("/contacts/:id", contacts.Delete)
	api.DELETE("/contacts/:id/permanent", contacts.DeletePermanent)
	api.POST("/contacts/:id/restore", contacts.Restore)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
