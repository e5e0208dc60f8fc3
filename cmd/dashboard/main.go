package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/internal/di"
	"github.com/amrivadeneyra/lunari-sub002/internal/handler"
	"github.com/amrivadeneyra/lunari-sub002/internal/payment"
	"github.com/amrivadeneyra/lunari-sub002/internal/route"
	"github.com/amrivadeneyra/lunari-sub002/internal/server"
	"github.com/amrivadeneyra/lunari-sub002/internal/view"
	"github.com/amrivadeneyra/lunari-sub002/pkg/config"
	"github.com/amrivadeneyra/lunari-sub002/pkg/database"
	"github.com/amrivadeneyra/lunari-sub002/pkg/kafka"
	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
	"github.com/amrivadeneyra/lunari-sub002/pkg/middleware"
	"github.com/amrivadeneyra/lunari-sub002/pkg/redis"
	"github.com/amrivadeneyra/lunari-sub002/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.App.Environment == "development",
		OutputPath:  "stdout",
	}); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	defer func() { _ = logger.Sync() }()

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		logger.Fatal("failed to init telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewPageMetrics()
	if err != nil {
		logger.Fatal("failed to register page metrics", zap.Error(err))
	}

	dbCfg := database.DefaultPostgresConfig()
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.Database = cfg.Database.DBName
	dbCfg.SSLMode = cfg.Database.SSLMode
	dbCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	dbCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := db.ApplySchema(ctx); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
		logger.Info("database schema applied")
	}

	var cache *redis.Client
	if cfg.Portal.BrandingCacheTTL > 0 {
		cache, err = redis.NewClient(ctx, &redis.Config{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			logger.Warn("redis unavailable, branding cache disabled", zap.Error(err))
			cache = nil
		}
	}

	var publisher kafka.Publisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(&kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
			Logger:   log,
		})
		if err != nil {
			logger.Fatal("failed to create kafka producer", zap.Error(err))
		}
		publisher = producer
	}

	var gateway payment.Gateway
	if cfg.Stripe.Enabled() {
		sg, err := payment.NewStripeGateway(&payment.GatewayConfig{SecretKey: cfg.Stripe.SecretKey})
		if err != nil {
			logger.Fatal("failed to create stripe gateway", zap.Error(err))
		}
		gateway = sg
	}

	container := di.NewContainer(&di.ContainerConfig{
		DB:               db,
		Redis:            cache,
		Publisher:        publisher,
		Gateway:          gateway,
		Logger:           log,
		Metrics:          metrics,
		BookingTopic:     cfg.Kafka.BookingTopic,
		BrandingCacheTTL: cfg.Portal.BrandingCacheTTL,
		Page: &handler.PageHandlerConfig{
			FallbackRoute: cfg.Portal.FallbackRoute,
			StripeEnabled: cfg.Stripe.Enabled(),
		},
		Payment: &handler.PaymentHandlerConfig{
			BaseURL:     cfg.App.BaseURL,
			RefreshPath: cfg.Stripe.RefreshPath,
			ReturnPath:  cfg.Stripe.ReturnPath,
		},
	})
	defer container.Close()

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowOrigins
	}

	engine, err := server.NewRouter(container, &server.Config{
		Auth: &middleware.AuthConfig{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			CookieName: cfg.JWT.CookieName,
			SignInURL:  cfg.JWT.SignInURL,
			Matcher:    route.MustNewMatcher(route.DefaultConfig()),
		},
		CORS:           corsCfg,
		Images:         view.NewImagePolicy(cfg.Portal.ImageHosts...),
		StaticDir:      cfg.App.StaticDir,
		Fallback:       cfg.Portal.FallbackRoute,
		Logger:         log,
		TrustedProxies: cfg.Server.TrustedProxies,
		BookingLimiter: middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Portal.BookingRPS,
			Burst:             cfg.Portal.BookingBurst,
		}),
	})
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	logger.Info("starting dashboard",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
		zap.Bool("stripe", gateway != nil),
		zap.Bool("kafka", cfg.Kafka.Enabled()),
		zap.Bool("branding_cache", cache != nil),
	)

	if err := server.New(&cfg.Server, engine, log).Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("dashboard stopped")
}
