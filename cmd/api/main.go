package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ulrichyv/mailing/internal/config"
	"github.com/ulrichyv/mailing/internal/db"
	"github.com/ulrichyv/mailing/internal/handler"
	"github.com/ulrichyv/mailing/internal/repository"
	"github.com/ulrichyv/mailing/internal/sender"
	"github.com/ulrichyv/mailing/internal/service"
	"github.com/ulrichyv/mailing/internal/suppress"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting mailing API server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Duplicate-recipient suppression store: Redis when configured,
	// otherwise in-process.
	var store suppress.Store
	if cfg.Redis.URL != "" {
		store, err = suppress.NewRedisStore(suppress.RedisConfig{URL: cfg.Redis.URL}, logger)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		store = suppress.NewMemoryStore()
		logger.Info("no REDIS_URL configured, using in-process suppression store")
	}
	defer store.Close()

	// Delivery backend
	factory := &sender.Factory{
		Provider: cfg.Delivery.Provider,
		MockRate: cfg.Delivery.MockSuccessRate,
	}
	if cfg.Delivery.Provider == sender.ProviderSES {
		ses, err := sender.NewSESSender(
			context.Background(),
			cfg.Delivery.SESAccessKey,
			cfg.Delivery.SESSecretKey,
			cfg.Delivery.SESRegion,
			cfg.Delivery.SESFrom,
		)
		if err != nil {
			logger.Error("failed to configure SES", slog.String("error", err.Error()))
			os.Exit(1)
		}
		factory.SES = ses
	}

	logger.Info("delivery provider configured", slog.String("provider", cfg.Delivery.Provider))

	// Initialize repositories
	templateRepo := repository.NewTemplateRepository(database.DB)
	connRepo := repository.NewConnectionRepository(database.DB)

	// Initialize services
	templateSvc := service.NewTemplateService(templateRepo, logger)
	connectionSvc := service.NewConnectionService(connRepo, logger)
	campaignSvc := service.NewCampaignService(templateRepo, connRepo, factory, store, logger)

	// Initialize handlers
	campaignHandler := handler.NewCampaignHandler(campaignSvc, logger)
	templateHandler := handler.NewTemplateHandler(templateSvc, logger)
	connectionHandler := handler.NewConnectionHandler(connectionSvc, logger)
	healthHandler := handler.NewHealthHandler(database.DB, store, logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware(cfg.API.AllowedOrigins))

	// Register routes
	r.Get("/health", healthHandler.Health)

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/dispatch", campaignHandler.Dispatch)
		r.Post("/preview", campaignHandler.Preview)
	})

	r.Post("/contacts/inspect", campaignHandler.InspectContacts)

	r.Route("/templates", func(r chi.Router) {
		r.Post("/convert", templateHandler.Convert)

		r.Route("/email", func(r chi.Router) {
			r.Post("/", templateHandler.CreateEmail)
			r.Get("/", templateHandler.ListEmail)
			r.Get("/{name}", templateHandler.GetEmail)
			r.Delete("/{name}", templateHandler.DeleteEmail)
		})

		r.Route("/sms", func(r chi.Router) {
			r.Post("/", templateHandler.CreateSMS)
			r.Get("/", templateHandler.ListSMS)
			r.Get("/{name}", templateHandler.GetSMS)
			r.Delete("/{name}", templateHandler.DeleteSMS)
		})
	})

	r.Route("/connections", func(r chi.Router) {
		r.Route("/smtp", func(r chi.Router) {
			r.Post("/", connectionHandler.CreateSMTP)
			r.Get("/", connectionHandler.ListSMTP)
			r.Delete("/{name}", connectionHandler.DeleteSMTP)
		})

		r.Route("/sms", func(r chi.Router) {
			r.Post("/", connectionHandler.CreateSMS)
			r.Get("/", connectionHandler.ListSMS)
			r.Delete("/{name}", connectionHandler.DeleteSMS)
		})
	})

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // dispatch runs synchronously
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
