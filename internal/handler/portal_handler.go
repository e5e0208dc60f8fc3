package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/internal/action"
	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
	"github.com/amrivadeneyra/lunari-sub002/internal/view"
	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
	"github.com/amrivadeneyra/lunari-sub002/pkg/response"
	"github.com/amrivadeneyra/lunari-sub002/pkg/telemetry"
)

// PortalHandler serves the public customer portal. Branding lookups never
// gate a portal page; the layout renders without the tenant nav instead.
type PortalHandler struct {
	pageObserver
	actions action.Actions
	log     *logger.Logger
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(actions action.Actions, log *logger.Logger, metrics *telemetry.PageMetrics) *PortalHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &PortalHandler{
		pageObserver: pageObserver{metrics: metrics},
		actions:      actions,
		log:          log,
	}
}

// BookAppointmentRequest is the body of a portal booking submission
type BookAppointmentRequest struct {
	Date string `form:"date" json:"date" binding:"required"`
	Slot string `form:"slot" json:"slot" binding:"required"`
}

// DomainBooking handles the domain portal booking page
// GET /portal/domain/:domainid/:customerid
func (h *PortalHandler) DomainBooking(c *gin.Context) {
	h.booking(c, view.TenantDomain, c.Param("domainid"))
}

// CompanyBooking handles the company portal booking page
// GET /portal/company/:companyid/:customerid
func (h *PortalHandler) CompanyBooking(c *gin.Context) {
	h.booking(c, view.TenantCompany, c.Param("companyid"))
}

func (h *PortalHandler) booking(c *gin.Context, kind, tenantID string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.portal.booking")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PagePortalBooking, time.Now())

	span.SetAttributes(tenantAttr(kind, tenantID))

	portal := h.portalContext(c, kind, tenantID)
	h.renderBooking(c, portal, http.StatusOK, "")
	span.SetStatus(codes.Ok, "")
}

// DomainPayment handles the domain portal payment page
// GET /portal/domain/:domainid/:customerid/payment
func (h *PortalHandler) DomainPayment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.portal.payment")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)
	defer h.observe(ctx, view.PagePortalPayment, time.Now())

	domainID := c.Param("domainid")
	span.SetAttributes(telemetry.DomainIDAttr(domainID))

	portal := h.portalContext(c, view.TenantDomain, domainID)

	products, err := h.actions.OnGetDomainProducts(ctx, domainID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load portal products", zap.String("domain_id", domainID), zap.Error(err))
		products = []*domain.Product{}
	}

	c.HTML(http.StatusOK, view.PagePortalPayment, &view.PortalPaymentPage{
		Portal:   portal,
		Products: products,
	})
	h.rendered(ctx, view.PagePortalPayment)
	span.SetStatus(codes.Ok, "")
}

// BookDomainAppointment handles a booking for a domain calendar
// POST /portal/domain/:domainid/:customerid/bookings
func (h *PortalHandler) BookDomainAppointment(c *gin.Context) {
	h.book(c, view.TenantDomain, c.Param("domainid"))
}

// BookCompanyAppointment handles a booking for a company calendar
// POST /portal/company/:companyid/:customerid/bookings
func (h *PortalHandler) BookCompanyAppointment(c *gin.Context) {
	h.book(c, view.TenantCompany, c.Param("companyid"))
}

// book accepts a form post from the portal page or a JSON body. Form posts
// are answered with a redirect or the re-rendered page, JSON with the
// response envelope.
func (h *PortalHandler) book(c *gin.Context, kind, tenantID string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.portal.book_appointment")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	customerID := c.Param("customerid")
	asJSON := c.ContentType() == gin.MIMEJSON
	span.SetAttributes(tenantAttr(kind, tenantID))

	fail := func(resp *response.Response) {
		if asJSON {
			response.Abort(c, resp)
			return
		}
		h.renderBooking(c, h.portalContext(c, kind, tenantID), resp.Status(), resp.Error.Message)
	}

	var req BookAppointmentRequest
	if err := c.ShouldBind(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		fail(response.ValidationFailed("date and slot are required"))
		return
	}

	date, err := time.Parse(domain.BookingDateLayout, req.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid date")
		fail(response.ValidationFailed("date must be formatted as YYYY-MM-DD"))
		return
	}

	bookReq := &action.BookAppointmentRequest{
		CustomerID: customerID,
		Date:       date,
		Slot:       req.Slot,
	}
	if kind == view.TenantDomain {
		bookReq.DomainID = tenantID
	} else {
		bookReq.CompanyID = tenantID
	}

	booking, err := h.actions.OnBookAppointment(ctx, bookReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		resp := bookingError(err)
		if resp.Error.Code == response.ErrCodeInternalError {
			h.log.ErrorContext(ctx, "failed to book appointment",
				zap.String("customer_id", customerID),
				zap.String("tenant_id", tenantID),
				zap.Error(err),
			)
		}
		fail(resp)
		return
	}

	span.SetAttributes(attribute.String("booking.id", booking.ID))
	span.SetStatus(codes.Ok, "")

	if asJSON {
		c.JSON(http.StatusCreated, response.Success(booking))
		return
	}
	portal := view.PortalContext{TenantKind: kind, TenantID: tenantID, CustomerID: customerID}
	c.Redirect(http.StatusSeeOther, portal.BasePath())
}

func tenantAttr(kind, id string) attribute.KeyValue {
	if kind == view.TenantDomain {
		return telemetry.DomainIDAttr(id)
	}
	return telemetry.CompanyIDAttr(id)
}

func bookingError(err error) *response.Response {
	switch {
	case errors.Is(err, action.ErrSlotTaken):
		return response.SlotTaken("This slot is already booked")
	case errors.Is(err, action.ErrCustomerNotFound):
		return response.NotFound("Customer not found")
	case errors.Is(err, action.ErrTenantNotFound):
		return response.TenantNotFound("Calendar not found")
	case errors.Is(err, domain.ErrBookingDateRequired),
		errors.Is(err, domain.ErrBookingDateInPast),
		errors.Is(err, domain.ErrBookingSlotRequired),
		errors.Is(err, domain.ErrBookingSlotInvalid):
		return response.ValidationFailed(err.Error())
	default:
		return response.InternalError("Failed to book appointment")
	}
}

func (h *PortalHandler) portalContext(c *gin.Context, kind, tenantID string) view.PortalContext {
	ctx := c.Request.Context()

	var (
		branding *action.Branding
		err      error
	)
	if kind == view.TenantDomain {
		branding, err = h.actions.GetDomainInfo(ctx, tenantID)
	} else {
		branding, err = h.actions.GetCompanyInfo(ctx, tenantID)
	}
	if err != nil {
		h.log.WarnContext(ctx, "failed to load portal branding",
			zap.String("tenant_kind", kind),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		branding = nil
	}

	return view.PortalContext{
		TenantKind: kind,
		TenantID:   tenantID,
		CustomerID: c.Param("customerid"),
		Branding:   branding,
	}
}

func (h *PortalHandler) renderBooking(c *gin.Context, portal view.PortalContext, status int, errMsg string) {
	ctx := c.Request.Context()

	responses, err := h.actions.OnCompanyCustomerResponses(ctx, portal.CustomerID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load customer responses", zap.String("customer_id", portal.CustomerID), zap.Error(err))
		responses = nil
	}
	if responses == nil {
		h.notFound(ctx, view.PagePortalBooking)
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	var bookings []*domain.Booking
	if portal.TenantKind == view.TenantDomain {
		bookings, err = h.actions.OnGetAllDomainBookings(ctx, portal.TenantID)
	} else {
		bookings, err = h.actions.OnGetAllCompanyBookings(ctx, portal.TenantID)
	}
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load portal bookings", zap.String("tenant_id", portal.TenantID), zap.Error(err))
		bookings = []*domain.Booking{}
	}

	c.HTML(status, view.PagePortalBooking, &view.PortalBookingPage{
		Portal:    portal,
		Email:     responses.Email,
		Questions: responses.Questions,
		Bookings:  bookings,
		Slots:     domain.AppointmentSlots,
		Error:     errMsg,
	})
	if status == http.StatusOK {
		h.rendered(ctx, view.PagePortalBooking)
	}
}
