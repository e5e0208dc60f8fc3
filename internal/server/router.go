package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/amrivadeneyra/lunari-sub002/internal/di"
	"github.com/amrivadeneyra/lunari-sub002/internal/view"
	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
	"github.com/amrivadeneyra/lunari-sub002/pkg/middleware"
)

// Config holds router settings
type Config struct {
	Auth      *middleware.AuthConfig
	CORS      middleware.CORSConfig
	Images    *view.ImagePolicy
	StaticDir string
	Fallback  string
	Logger    *logger.Logger
	// TrustedProxies may set the client IP through forwarding headers.
	// Nil trusts none.
	TrustedProxies []string
	// BookingLimiter throttles portal booking submissions when set
	BookingLimiter *middleware.RateLimiter
}

// NewRouter builds the dashboard engine. Probes sit outside the session
// gate; everything else goes through it.
func NewRouter(c *di.Container, cfg *Config) (*gin.Engine, error) {
	renderer, err := view.NewRenderer(cfg.Images)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = "/dashboard"
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	engine.HTMLRender = renderer
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.AccessLog(log, "/health", "/ready"))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))

	engine.GET("/health", c.HealthHandler.Health)
	engine.GET("/ready", c.HealthHandler.Ready)

	app := engine.Group("/", middleware.AuthGate(cfg.Auth))

	if cfg.StaticDir != "" {
		app.Static("/images", filepath.Join(cfg.StaticDir, "images"))
	}

	pages := app.Group("/", middleware.NoCache())
	{
		pages.GET("/", func(ctx *gin.Context) {
			ctx.Redirect(http.StatusFound, fallback)
		})
		pages.GET("/dashboard", c.PageHandler.Dashboard)
		pages.GET("/domain/:domain", c.PageHandler.DomainSettings)
		pages.GET("/catalog/:domain", c.PageHandler.Catalog)
		pages.GET("/company", c.PageHandler.Company)
		pages.GET("/appointment", c.PageHandler.Appointment)
		pages.GET("/settings", c.PageHandler.Settings)
	}

	booking := []gin.HandlerFunc{}
	if cfg.BookingLimiter != nil {
		booking = append(booking, middleware.RateLimit(cfg.BookingLimiter))
	}

	portal := app.Group("/portal", middleware.NoCache())
	{
		portal.GET("/domain/:domainid/:customerid", c.PortalHandler.DomainBooking)
		portal.GET("/domain/:domainid/:customerid/payment", c.PortalHandler.DomainPayment)
		portal.POST("/domain/:domainid/:customerid/bookings", append(booking, c.PortalHandler.BookDomainAppointment)...)
		portal.GET("/company/:companyid/:customerid", c.PortalHandler.CompanyBooking)
		portal.POST("/company/:companyid/:customerid/bookings", append(booking, c.PortalHandler.BookCompanyAppointment)...)
	}

	api := app.Group("/api/payment")
	{
		api.GET("/connected", c.PaymentHandler.Connected)
		api.POST("/stripe/connect", c.PaymentHandler.ConnectStripe)
		api.GET("/stripe/callback", c.PaymentHandler.StripeCallback)
	}

	return engine, nil
}
