package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dealspot/internal/config"
	custommiddleware "dealspot/internal/middleware"
	"dealspot/internal/notify"
	"dealspot/internal/repository"
	"dealspot/internal/service"
	"dealspot/internal/storage"
	"dealspot/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	client *redis.Client
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, client *redis.Client) (*Server, error) {
	store := storage.NewStore(client)

	// Initialize repositories; a corrupt snapshot aborts startup
	catalogRepo, err := repository.NewCatalogRepository(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog: %w", err)
	}

	defaults, err := service.NewDefaultSettings(cfg.Admin.DefaultPassword)
	if err != nil {
		return nil, err
	}

	settingsRepo, err := repository.NewSettingsRepository(ctx, store, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize site settings: %w", err)
	}

	cartRepo := repository.NewCartRepository(store)

	// Initialize services
	composer := notify.NewComposer(cfg.Checkout.WhatsAppNumber)
	catalogService := service.NewCatalogService(catalogRepo)
	cartService := service.NewCartService(cartRepo, catalogRepo, settingsRepo, composer, cfg.Checkout.Cities, cfg.Checkout.SubmitDelay)
	adminService := service.NewAdminService(settingsRepo, catalogRepo, cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	siteHandler := transport.NewSiteHandler(adminService, logger)
	adminHandler := transport.NewAdminHandler(adminService, catalogService, logger)

	authMiddleware := custommiddleware.AdminAuthMiddleware(cfg.Admin.JWTSecret, logger)
	checkoutLimiter := custommiddleware.RateLimitMiddleware(client, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "rate:checkout",
	}, logger)
	loginLimiter := custommiddleware.RateLimitMiddleware(client, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "rate:login",
	}, logger)

	// Create router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router, checkoutLimiter)
	siteHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router, authMiddleware, loginLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		client: client,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Error("Failed to close storage client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
