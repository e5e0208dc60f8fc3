package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/internal/action"
	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
	"github.com/amrivadeneyra/lunari-sub002/internal/view"
	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
	"github.com/amrivadeneyra/lunari-sub002/pkg/middleware"
	"github.com/amrivadeneyra/lunari-sub002/pkg/telemetry"
)

// PageHandler serves the signed-in dashboard pages. Pages scoped to a domain
// or company redirect to the fallback route when the tenant cannot be
// resolved, whether it is missing or the lookup failed.
type PageHandler struct {
	pageObserver
	actions       action.Actions
	log           *logger.Logger
	fallback      string
	stripeEnabled bool
}

// PageHandlerConfig configures a PageHandler
type PageHandlerConfig struct {
	FallbackRoute string
	StripeEnabled bool
	Metrics       *telemetry.PageMetrics
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(actions action.Actions, log *logger.Logger, cfg *PageHandlerConfig) *PageHandler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &PageHandler{actions: actions, log: log, fallback: "/dashboard"}
	if cfg != nil {
		if cfg.FallbackRoute != "" {
			h.fallback = cfg.FallbackRoute
		}
		h.stripeEnabled = cfg.StripeEnabled
		h.metrics = cfg.Metrics
	}
	return h
}

// Dashboard handles GET /dashboard
func (h *PageHandler) Dashboard(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.dashboard")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PageDashboard, time.Now())

	c.HTML(http.StatusOK, view.PageDashboard, &view.DashboardPage{
		Layout: h.layout(c, "Dashboard"),
	})
	h.rendered(ctx, view.PageDashboard)
	span.SetStatus(codes.Ok, "")
}

// DomainSettings handles GET /domain/:domain
func (h *PageHandler) DomainSettings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.domain_settings")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PageDomainSettings, time.Now())

	d, ok := h.resolveDomain(c, view.PageDomainSettings)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, view.PageDomainSettings, &view.DomainSettingsPage{
		Layout:   h.layout(c, d.Name),
		DomainID: d.ID,
		Name:     d.Name,
	})
	h.rendered(ctx, view.PageDomainSettings)
	span.SetStatus(codes.Ok, "")
}

// Catalog handles GET /catalog/:domain
func (h *PageHandler) Catalog(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.catalog")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PageCatalog, time.Now())

	d, ok := h.resolveDomain(c, view.PageCatalog)
	if !ok {
		return
	}

	products, err := h.actions.OnGetDomainProducts(ctx, d.ID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load products", zap.String("domain_id", d.ID), zap.Error(err))
		products = []*domain.Product{}
	}

	c.HTML(http.StatusOK, view.PageCatalog, &view.CatalogPage{
		Layout:   h.layout(c, d.Name),
		DomainID: d.ID,
		Name:     d.Name,
		Products: products,
	})
	h.rendered(ctx, view.PageCatalog)
	span.SetStatus(codes.Ok, "")
}

// Company handles GET /company
func (h *PageHandler) Company(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.company")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PageCompany, time.Now())

	company, ok := h.resolveCompany(c, view.PageCompany)
	if !ok {
		return
	}

	userID := c.GetString(middleware.ContextKeyUserID)
	connected, err := h.actions.OnGetPaymentConnected(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load payment status", zap.String("company_id", company.ID), zap.Error(err))
	}

	c.HTML(http.StatusOK, view.PageCompany, &view.CompanyPage{
		Layout:           h.layout(c, company.Name),
		CompanyID:        company.ID,
		Name:             company.Name,
		Icon:             company.Icon,
		PaymentConnected: connected,
	})
	h.rendered(ctx, view.PageCompany)
	span.SetStatus(codes.Ok, "")
}

// Appointment handles GET /appointment
func (h *PageHandler) Appointment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.appointment")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PageAppointment, time.Now())

	company, ok := h.resolveCompany(c, view.PageAppointment)
	if !ok {
		return
	}

	bookings, err := h.actions.OnGetAllCompanyBookings(ctx, company.ID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load bookings", zap.String("company_id", company.ID), zap.Error(err))
		bookings = []*domain.Booking{}
	}

	c.HTML(http.StatusOK, view.PageAppointment, &view.AppointmentPage{
		Layout:    h.layout(c, "Appointments"),
		CompanyID: company.ID,
		Bookings:  bookings,
	})
	h.rendered(ctx, view.PageAppointment)
	span.SetStatus(codes.Ok, "")
}

// Settings handles GET /settings
func (h *PageHandler) Settings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.settings")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PageSettings, time.Now())

	userID := c.GetString(middleware.ContextKeyUserID)
	span.SetAttributes(telemetry.UserIDAttr(userID))

	company, err := h.actions.OnGetAccountCompany(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load company", zap.Error(err))
	}
	conns, err := h.actions.OnGetPaymentConnections(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load payment connections", zap.Error(err))
	}

	c.HTML(http.StatusOK, view.PageSettings, &view.SettingsPage{
		Layout:        h.layout(c, "Settings"),
		Company:       company,
		Providers:     view.ProviderStatuses(conns),
		StripeEnabled: h.stripeEnabled && company != nil,
	})
	h.rendered(ctx, view.PageSettings)
	span.SetStatus(codes.Ok, "")
}

// resolveDomain looks up the :domain parameter for the signed-in user and
// redirects when nothing matches
func (h *PageHandler) resolveDomain(c *gin.Context, page string) (*action.DomainSummary, bool) {
	ctx := c.Request.Context()
	userID := c.GetString(middleware.ContextKeyUserID)
	name := c.Param("domain")
	trace.SpanFromContext(ctx).SetAttributes(telemetry.UserIDAttr(userID))

	info, err := h.actions.OnGetCurrentDomainInfo(ctx, userID, name)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		h.log.ErrorContext(ctx, "domain lookup failed",
			zap.String("user_id", userID),
			zap.String("domain", name),
			zap.Error(err),
		)
		info = nil
	}
	if info == nil || len(info.Domains) == 0 {
		h.redirectFallback(c, page, "domain_not_found")
		return nil, false
	}

	d := info.Domains[0]
	trace.SpanFromContext(ctx).SetAttributes(telemetry.DomainIDAttr(d.ID))
	return &d, true
}

// resolveCompany loads the signed-in user's company and redirects when absent
func (h *PageHandler) resolveCompany(c *gin.Context, page string) (*domain.Company, bool) {
	ctx := c.Request.Context()
	userID := c.GetString(middleware.ContextKeyUserID)
	trace.SpanFromContext(ctx).SetAttributes(telemetry.UserIDAttr(userID))

	company, err := h.actions.OnGetAccountCompany(ctx, userID)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		h.log.ErrorContext(ctx, "company lookup failed", zap.String("user_id", userID), zap.Error(err))
		company = nil
	}
	if company == nil {
		h.redirectFallback(c, page, "company_not_found")
		return nil, false
	}

	trace.SpanFromContext(ctx).SetAttributes(telemetry.CompanyIDAttr(company.Company.ID))
	return &company.Company, true
}

func (h *PageHandler) redirectFallback(c *gin.Context, page, reason string) {
	h.redirected(c.Request.Context(), page, reason)
	c.Redirect(http.StatusFound, h.fallback)
	c.Abort()
}

func (h *PageHandler) layout(c *gin.Context, title string) view.Layout {
	ctx := c.Request.Context()
	domains, err := h.actions.OnGetUserDomains(ctx, c.GetString(middleware.ContextKeyUserID))
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load sidebar domains", zap.Error(err))
		domains = []action.DomainSummary{}
	}
	return view.Layout{
		Title:         title,
		SidebarExpand: view.SidebarState(c.Request),
		Domains:       domains,
	}
}
