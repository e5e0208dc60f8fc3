package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/internal/action"
	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
	"github.com/amrivadeneyra/lunari-sub002/internal/payment"
	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
	"github.com/amrivadeneyra/lunari-sub002/pkg/middleware"
	"github.com/amrivadeneyra/lunari-sub002/pkg/response"
	"github.com/amrivadeneyra/lunari-sub002/pkg/telemetry"
)

// PaymentHandler onboards the signed-in user's company onto Stripe and
// reports payment connection state
type PaymentHandler struct {
	actions     action.Actions
	gateway     payment.Gateway
	baseURL     string
	refreshPath string
	returnPath  string
	settings    string
	log         *logger.Logger
}

// PaymentHandlerConfig holds the URLs handed to the payment provider
type PaymentHandlerConfig struct {
	BaseURL      string
	RefreshPath  string
	ReturnPath   string
	SettingsPath string
}

// NewPaymentHandler creates a new PaymentHandler. A nil gateway disables the
// onboarding endpoints.
func NewPaymentHandler(actions action.Actions, gateway payment.Gateway, log *logger.Logger, cfg *PaymentHandlerConfig) *PaymentHandler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &PaymentHandler{
		actions:     actions,
		gateway:     gateway,
		refreshPath: "/settings",
		returnPath:  "/api/payment/stripe/callback",
		settings:    "/settings",
		log:         log,
	}
	if cfg != nil {
		h.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		if cfg.RefreshPath != "" {
			h.refreshPath = cfg.RefreshPath
		}
		if cfg.ReturnPath != "" {
			h.returnPath = cfg.ReturnPath
		}
		if cfg.SettingsPath != "" {
			h.settings = cfg.SettingsPath
		}
	}
	return h
}

// ProviderConnection is one provider in the connection status response
type ProviderConnection struct {
	Provider  domain.PaymentProvider `json:"provider"`
	Connected bool                   `json:"connected"`
	AccountID string                 `json:"account_id,omitempty"`
}

// ConnectionStatusResponse is returned by GET /api/payment/connected
type ConnectionStatusResponse struct {
	Connected bool                 `json:"connected"`
	Providers []ProviderConnection `json:"providers"`
}

// ConnectResponse is returned by the connect endpoint to JSON clients
type ConnectResponse struct {
	URL       string `json:"url"`
	AccountID string `json:"account_id"`
}

// Connected handles the connection status lookup
// GET /api/payment/connected
func (h *PaymentHandler) Connected(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.connected")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, _ := middleware.GetUserID(c)
	span.SetAttributes(telemetry.UserIDAttr(userID))
	conns, err := h.actions.OnGetPaymentConnections(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load connections")
		h.log.ErrorContext(ctx, "failed to load payment connections", zap.String("user_id", userID), zap.Error(err))
		response.Abort(c, response.InternalError("Failed to load payment connections"))
		return
	}

	resp := ConnectionStatusResponse{
		Connected: domain.AnyConnected(conns),
		Providers: make([]ProviderConnection, 0, len(domain.PaymentProviders)),
	}
	for _, p := range domain.PaymentProviders {
		pc := ProviderConnection{Provider: p}
		if conn := findConnection(conns, p); conn != nil {
			pc.Connected = conn.Connected
			pc.AccountID = conn.AccountID
		}
		resp.Providers = append(resp.Providers, pc)
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(resp))
}

// ConnectStripe handles the start of Stripe onboarding. Browsers are
// redirected to the hosted onboarding page; JSON clients receive its URL.
// An optional two-letter ?country= picks the account country for new accounts.
// POST /api/payment/stripe/connect
func (h *PaymentHandler) ConnectStripe(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.stripe_connect",
		trace.WithAttributes(telemetry.ProviderAttr(string(domain.PaymentProviderStripe))))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	if h.gateway == nil {
		span.SetStatus(codes.Error, "not configured")
		response.Abort(c, response.PaymentNotConfigured("Stripe is not configured"))
		return
	}

	country, ok := parseCountry(c.Query("country"))
	if !ok {
		span.SetStatus(codes.Error, "invalid country")
		response.Abort(c, response.ValidationFailed("country must be a two-letter code"))
		return
	}

	userID, _ := middleware.GetUserID(c)
	span.SetAttributes(telemetry.UserIDAttr(userID))
	company, err := h.actions.OnGetAccountCompany(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "company lookup failed")
		h.log.ErrorContext(ctx, "company lookup failed", zap.String("user_id", userID), zap.Error(err))
		response.Abort(c, response.InternalError("Failed to load company"))
		return
	}
	if company == nil {
		span.SetStatus(codes.Error, "company not found")
		response.Abort(c, response.TenantNotFound("Company not found"))
		return
	}
	span.SetAttributes(telemetry.CompanyIDAttr(company.Company.ID))

	conns, err := h.actions.OnGetPaymentConnections(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "connection lookup failed")
		h.log.ErrorContext(ctx, "failed to load payment connections", zap.String("user_id", userID), zap.Error(err))
		response.Abort(c, response.InternalError("Failed to load payment connections"))
		return
	}

	var accountID string
	if conn := findConnection(conns, domain.PaymentProviderStripe); conn != nil {
		accountID = conn.AccountID
	}

	if accountID == "" {
		email, _ := middleware.GetEmail(c)
		account, err := h.gateway.CreateConnectAccount(ctx, &payment.ConnectAccountRequest{
			CompanyID:   company.Company.ID,
			CompanyName: company.Company.Name,
			Email:       email,
			Country:     country,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "create account failed")
			h.log.ErrorContext(ctx, "failed to create stripe account", zap.String("company_id", company.Company.ID), zap.Error(err))
			response.Abort(c, response.ServiceUnavailable("Failed to start Stripe onboarding"))
			return
		}
		accountID = account.AccountID

		if err := h.actions.OnSavePaymentConnection(ctx, &domain.PaymentConnection{
			CompanyID: company.Company.ID,
			Provider:  domain.PaymentProviderStripe,
			AccountID: accountID,
			Connected: false,
			UpdatedAt: time.Now(),
		}); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "save connection failed")
			h.log.ErrorContext(ctx, "failed to save stripe connection", zap.String("company_id", company.Company.ID), zap.Error(err))
			response.Abort(c, response.InternalError("Failed to save payment connection"))
			return
		}
	}

	link, err := h.gateway.CreateOnboardingLink(ctx, &payment.OnboardingLinkRequest{
		AccountID:  accountID,
		RefreshURL: h.baseURL + h.refreshPath,
		ReturnURL:  h.baseURL + h.returnPath,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "onboarding link failed")
		h.log.ErrorContext(ctx, "failed to create onboarding link", zap.String("account_id", accountID), zap.Error(err))
		response.Abort(c, response.ServiceUnavailable("Failed to start Stripe onboarding"))
		return
	}

	span.SetStatus(codes.Ok, "")
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		c.Redirect(http.StatusSeeOther, link)
		return
	}
	c.JSON(http.StatusOK, response.Success(ConnectResponse{URL: link, AccountID: accountID}))
}

// StripeCallback handles the return from Stripe onboarding and records
// whether the account can accept charges
// GET /api/payment/stripe/callback
func (h *PaymentHandler) StripeCallback(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.stripe_callback",
		trace.WithAttributes(telemetry.ProviderAttr(string(domain.PaymentProviderStripe))))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	defer c.Redirect(http.StatusFound, h.settings)

	if h.gateway == nil {
		return
	}

	userID, _ := middleware.GetUserID(c)
	span.SetAttributes(telemetry.UserIDAttr(userID))
	conns, err := h.actions.OnGetPaymentConnections(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "connection lookup failed")
		h.log.ErrorContext(ctx, "failed to load payment connections", zap.String("user_id", userID), zap.Error(err))
		return
	}
	conn := findConnection(conns, domain.PaymentProviderStripe)
	if conn == nil || conn.AccountID == "" {
		return
	}

	ready, err := h.gateway.IsAccountReady(ctx, conn.AccountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "account lookup failed")
		h.log.ErrorContext(ctx, "failed to check stripe account", zap.String("account_id", conn.AccountID), zap.Error(err))
		return
	}

	if ready != conn.Connected {
		conn.Connected = ready
		conn.UpdatedAt = time.Now()
		if err := h.actions.OnSavePaymentConnection(ctx, conn); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "save connection failed")
			h.log.ErrorContext(ctx, "failed to save stripe connection", zap.String("account_id", conn.AccountID), zap.Error(err))
			return
		}
	}

	h.log.InfoContext(ctx, "stripe onboarding returned",
		zap.String("account_id", conn.AccountID),
		zap.Bool("connected", ready),
	)
	span.SetStatus(codes.Ok, "")
}

func findConnection(conns []*domain.PaymentConnection, p domain.PaymentProvider) *domain.PaymentConnection {
	for _, conn := range conns {
		if conn != nil && conn.Provider == p {
			return conn
		}
	}
	return nil
}

// parseCountry accepts an empty value or an ISO 3166-1 alpha-2 code
func parseCountry(raw string) (string, bool) {
	country := strings.ToUpper(strings.TrimSpace(raw))
	if country == "" {
		return "", true
	}
	if len(country) != 2 || country[0] < 'A' || country[0] > 'Z' || country[1] < 'A' || country[1] > 'Z' {
		return "", false
	}
	return country, true
}
