package di

import (
	"time"

	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/internal/action"
	"github.com/amrivadeneyra/lunari-sub002/internal/handler"
	"github.com/amrivadeneyra/lunari-sub002/internal/payment"
	"github.com/amrivadeneyra/lunari-sub002/internal/repository"
	"github.com/amrivadeneyra/lunari-sub002/pkg/database"
	"github.com/amrivadeneyra/lunari-sub002/pkg/kafka"
	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
	"github.com/amrivadeneyra/lunari-sub002/pkg/redis"
	"github.com/amrivadeneyra/lunari-sub002/pkg/telemetry"
)

// Container holds all dependencies for the dashboard
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher kafka.Publisher
	Gateway   payment.Gateway
	Logger    *logger.Logger

	// Repositories
	Repos action.Repositories

	// Actions
	Actions action.Actions

	// Handlers
	HealthHandler  *handler.HealthHandler
	PageHandler    *handler.PageHandler
	PortalHandler  *handler.PortalHandler
	PaymentHandler *handler.PaymentHandler
}

// ContainerConfig contains configuration for building the container.
// DB is required unless Repos is set. Redis, Publisher and Gateway are optional.
type ContainerConfig struct {
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher kafka.Publisher
	Gateway   payment.Gateway
	Logger    *logger.Logger
	Metrics   *telemetry.PageMetrics

	// Repos overrides the Postgres repositories when set
	Repos *action.Repositories

	BookingTopic     string
	BrandingCacheTTL time.Duration
	Page             *handler.PageHandlerConfig
	Payment          *handler.PaymentHandlerConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
		Gateway:   cfg.Gateway,
		Logger:    log,
	}

	// Initialize repositories
	if cfg.Repos != nil {
		c.Repos = *cfg.Repos
	} else {
		pool := c.DB.Pool()
		c.Repos = action.Repositories{
			Companies: repository.NewPostgresCompanyRepository(pool),
			Domains:   repository.NewPostgresDomainRepository(pool),
			Customers: repository.NewPostgresCustomerRepository(pool),
			Bookings:  repository.NewPostgresBookingRepository(pool),
			Products:  repository.NewPostgresProductRepository(pool),
			Payments:  repository.NewPostgresPaymentConnectionRepository(pool),
		}
	}

	// Initialize actions
	c.Actions = action.NewActions(c.Repos, c.Publisher, cfg.BookingTopic, log)
	if c.Redis != nil {
		c.Actions = action.WithBrandingCache(c.Actions, c.Redis, cfg.BrandingCacheTTL, log)
	}

	// Initialize handlers
	checks := map[string]handler.Pinger{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	if p, ok := c.Publisher.(*kafka.Producer); ok && p != nil {
		checks["kafka"] = p
	}
	c.HealthHandler = handler.NewHealthHandler(checks)
	c.PageHandler = handler.NewPageHandler(c.Actions, log, withMetrics(cfg.Page, cfg.Metrics))
	c.PortalHandler = handler.NewPortalHandler(c.Actions, log, cfg.Metrics)
	c.PaymentHandler = handler.NewPaymentHandler(c.Actions, c.Gateway, log, cfg.Payment)

	return c
}

func withMetrics(cfg *handler.PageHandlerConfig, metrics *telemetry.PageMetrics) *handler.PageHandlerConfig {
	out := handler.PageHandlerConfig{}
	if cfg != nil {
		out = *cfg
	}
	if out.Metrics == nil {
		out.Metrics = metrics
	}
	return &out
}

// Close releases the infrastructure held by the container
func (c *Container) Close() {
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
