package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"product-provider/internal/config"
	"product-provider/internal/database"
	custommiddleware "product-provider/internal/middleware"
	"product-provider/internal/repository"
	"product-provider/internal/service"
	"product-provider/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services bundles the catalog services exposed over HTTP
type Services struct {
	Products   service.ProductService
	Categories service.CategoryService
	Reviews    service.ReviewService
	Warehouse  service.WarehouseService
}

// HealthFunc reports the state of the backing store
type HealthFunc func(ctx context.Context) map[string]string

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServices wires the postgres repositories into the catalog services
func NewServices(db database.Service, cfg config.CatalogConfig, logger *zap.Logger) Services {
	uow := database.NewUnitOfWork(db.DB())

	productRepo := repository.NewProductRepository(uow)
	categoryRepo := repository.NewCategoryRepository(uow)
	reviewRepo := repository.NewReviewRepository(uow)
	warehouseRepo := repository.NewWarehouseRepository(uow)

	return Services{
		Products:   service.NewProductService(productRepo, categoryRepo, cfg.NewArrivalsWindow, logger),
		Categories: service.NewCategoryService(categoryRepo, logger),
		Reviews:    service.NewReviewService(reviewRepo, logger),
		Warehouse:  service.NewWarehouseService(warehouseRepo, logger),
	}
}

// NewServer creates the HTTP server. redisClient may be nil when rate
// limiting is disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	services := NewServices(db, cfg.Catalog, logger)

	router := NewRouter(cfg, logger, services, db.Health, redisClient)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

// NewRouter builds the middleware chain and registers every route
func NewRouter(cfg *config.Config, logger *zap.Logger, services Services, health HealthFunc, redisClient *redis.Client) http.Handler {
	router := chi.NewRouter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := custommiddleware.NewMetrics(registry)

	router.Use(custommiddleware.DefaultMiddlewareStack(logger)...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(metrics.Middleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsProduction()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := health(r.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, stats)
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	router.Group(func(r chi.Router) {
		if cfg.RateLimit.Enabled && redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "ratelimit:catalog",
			}, logger))
		}

		transport.NewProductHandler(services.Products, logger).RegisterRoutes(r)
		transport.NewCategoryHandler(services.Categories, logger).RegisterRoutes(r)
		transport.NewReviewHandler(services.Reviews, logger).RegisterRoutes(r)
		transport.NewWarehouseHandler(services.Warehouse, logger).RegisterRoutes(r)
	})

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
