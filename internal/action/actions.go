package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
	"github.com/amrivadeneyra/lunari-sub002/internal/repository"
	"github.com/amrivadeneyra/lunari-sub002/pkg/kafka"
	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
)

var (
	ErrSlotTaken        = errors.New("appointment slot already taken")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrTenantNotFound   = errors.New("tenant not found")
)

// EventBookingCreated is the type of the event published for new bookings
const EventBookingCreated = "booking.created"

// Actions is the data-access surface used by the page and API handlers.
// Lookups return nil without an error when the record does not exist.
type Actions interface {
	// OnGetCurrentDomainInfo returns the user's domains matching domain, nil if the user has no company
	OnGetCurrentDomainInfo(ctx context.Context, userID, domain string) (*CurrentDomainInfo, error)
	// OnGetAccountCompany returns the company owned by the user
	OnGetAccountCompany(ctx context.Context, userID string) (*AccountCompany, error)
	// OnGetPaymentConnected reports whether any payment provider is connected for the user's company
	OnGetPaymentConnected(ctx context.Context, userID string) (bool, error)
	// OnGetPaymentConnections lists the user's payment connections
	OnGetPaymentConnections(ctx context.Context, userID string) ([]*domain.PaymentConnection, error)
	// OnSavePaymentConnection stores a payment connection
	OnSavePaymentConnection(ctx context.Context, conn *domain.PaymentConnection) error
	// GetCompanyInfo returns the portal branding of a company
	GetCompanyInfo(ctx context.Context, companyID string) (*Branding, error)
	// GetDomainInfo returns the portal branding of a domain
	GetDomainInfo(ctx context.Context, domainID string) (*Branding, error)
	// OnCompanyCustomerResponses returns a customer's email and intake questions
	OnCompanyCustomerResponses(ctx context.Context, customerID string) (*CustomerResponses, error)
	// OnGetAllCompanyBookings lists a company's bookings
	OnGetAllCompanyBookings(ctx context.Context, companyID string) ([]*domain.Booking, error)
	// OnGetAllDomainBookings lists a domain's bookings
	OnGetAllDomainBookings(ctx context.Context, domainID string) ([]*domain.Booking, error)
	// OnGetUserDomains lists all domains of the user's company
	OnGetUserDomains(ctx context.Context, userID string) ([]DomainSummary, error)
	// OnGetDomainProducts lists a domain's catalog
	OnGetDomainProducts(ctx context.Context, domainID string) ([]*domain.Product, error)
	// OnBookAppointment stores a booking and publishes a booking.created event
	OnBookAppointment(ctx context.Context, req *BookAppointmentRequest) (*domain.Booking, error)
}

// Repositories groups the stores used by Actions
type Repositories struct {
	Companies repository.CompanyRepository
	Domains   repository.DomainRepository
	Customers repository.CustomerRepository
	Bookings  repository.BookingRepository
	Products  repository.ProductRepository
	Payments  repository.PaymentConnectionRepository
}

// actions implements Actions
type actions struct {
	repos        Repositories
	publisher    kafka.Publisher
	bookingTopic string
	log          *logger.Logger
	now          func() time.Time
}

// Option configures Actions
type Option func(*actions)

// WithClock overrides the clock used to validate booking dates
func WithClock(now func() time.Time) Option {
	return func(a *actions) { a.now = now }
}

// NewActions creates Actions backed by repos. A nil publisher drops events.
func NewActions(repos Repositories, publisher kafka.Publisher, bookingTopic string, log *logger.Logger, opts ...Option) Actions {
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	if bookingTopic == "" {
		bookingTopic = EventBookingCreated
	}
	a := &actions{
		repos:        repos,
		publisher:    publisher,
		bookingTopic: bookingTopic,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *actions) OnGetCurrentDomainInfo(ctx context.Context, userID, name string) (*CurrentDomainInfo, error) {
	if userID == "" || name == "" {
		return nil, nil
	}

	company, err := a.repos.Companies.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if company == nil {
		return nil, nil
	}

	domains, err := a.repos.Domains.FindForOwner(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("find domains: %w", err)
	}
	return &CurrentDomainInfo{Domains: toDomainSummaries(domains)}, nil
}

func (a *actions) OnGetAccountCompany(ctx context.Context, userID string) (*AccountCompany, error) {
	if userID == "" {
		return nil, nil
	}
	company, err := a.repos.Companies.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if company == nil {
		return nil, nil
	}
	return &AccountCompany{Company: *company}, nil
}

func (a *actions) OnGetPaymentConnected(ctx context.Context, userID string) (bool, error) {
	conns, err := a.OnGetPaymentConnections(ctx, userID)
	if err != nil {
		return false, err
	}
	return domain.AnyConnected(conns), nil
}

func (a *actions) OnGetPaymentConnections(ctx context.Context, userID string) ([]*domain.PaymentConnection, error) {
	company, err := a.OnGetAccountCompany(ctx, userID)
	if err != nil || company == nil {
		return nil, err
	}
	conns, err := a.repos.Payments.ListByCompany(ctx, company.Company.ID)
	if err != nil {
		return nil, fmt.Errorf("list payment connections: %w", err)
	}
	return conns, nil
}

func (a *actions) OnSavePaymentConnection(ctx context.Context, conn *domain.PaymentConnection) error {
	if !conn.Provider.IsValid() {
		return fmt.Errorf("unknown payment provider %q", conn.Provider)
	}
	if err := a.repos.Payments.Upsert(ctx, conn); err != nil {
		return fmt.Errorf("save payment connection: %w", err)
	}
	return nil
}

func (a *actions) GetCompanyInfo(ctx context.Context, companyID string) (*Branding, error) {
	if companyID == "" {
		return nil, nil
	}
	company, err := a.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if company == nil {
		return nil, nil
	}
	return &Branding{Name: company.Name, Icon: company.Icon}, nil
}

func (a *actions) GetDomainInfo(ctx context.Context, domainID string) (*Branding, error) {
	if domainID == "" {
		return nil, nil
	}
	d, err := a.repos.Domains.GetByID(ctx, domainID)
	if err != nil {
		return nil, fmt.Errorf("get domain: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return &Branding{Name: d.Name, Icon: d.Icon}, nil
}

func (a *actions) OnCompanyCustomerResponses(ctx context.Context, customerID string) (*CustomerResponses, error) {
	if customerID == "" {
		return nil, nil
	}
	customer, err := a.repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, nil
	}

	responses, err := a.repos.Customers.ListResponses(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer responses: %w", err)
	}

	questions := make([]domain.CustomerResponse, 0, len(responses))
	for _, r := range responses {
		questions = append(questions, *r)
	}
	return &CustomerResponses{Email: customer.Email, Questions: questions}, nil
}

func (a *actions) OnGetAllCompanyBookings(ctx context.Context, companyID string) ([]*domain.Booking, error) {
	if companyID == "" {
		return []*domain.Booking{}, nil
	}
	return a.repos.Bookings.ListByCompany(ctx, companyID)
}

func (a *actions) OnGetAllDomainBookings(ctx context.Context, domainID string) ([]*domain.Booking, error) {
	if domainID == "" {
		return []*domain.Booking{}, nil
	}
	return a.repos.Bookings.ListByDomain(ctx, domainID)
}

func (a *actions) OnGetUserDomains(ctx context.Context, userID string) ([]DomainSummary, error) {
	if userID == "" {
		return []DomainSummary{}, nil
	}
	domains, err := a.repos.Domains.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return toDomainSummaries(domains), nil
}

func (a *actions) OnGetDomainProducts(ctx context.Context, domainID string) ([]*domain.Product, error) {
	return a.repos.Products.ListByDomain(ctx, domainID)
}

func (a *actions) OnBookAppointment(ctx context.Context, req *BookAppointmentRequest) (*domain.Booking, error) {
	slot := strings.TrimSpace(req.Slot)
	if err := domain.ValidateBooking(req.Date, slot, a.now()); err != nil {
		return nil, err
	}
	if req.DomainID == "" && req.CompanyID == "" {
		return nil, ErrTenantNotFound
	}

	customer, err := a.repos.Customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	companyID := req.CompanyID
	if req.DomainID != "" {
		d, err := a.repos.Domains.GetByID(ctx, req.DomainID)
		if err != nil {
			return nil, fmt.Errorf("get domain: %w", err)
		}
		if d == nil {
			return nil, ErrTenantNotFound
		}
		companyID = d.CompanyID
	}

	taken, err := a.repos.Bookings.SlotTaken(ctx, req.DomainID, companyID, req.Date, slot)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	booking := &domain.Booking{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		DomainID:   req.DomainID,
		CompanyID:  companyID,
		Email:      customer.Email,
		Date:       req.Date,
		Slot:       slot,
		CreatedAt:  a.now(),
	}
	if err := a.repos.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	a.publishBookingCreated(ctx, booking)
	return booking, nil
}

// the booking is already stored, so a failed publish is only logged
func (a *actions) publishBookingCreated(ctx context.Context, b *domain.Booking) {
	key := b.DomainID
	if key == "" {
		key = b.CompanyID
	}
	event, err := kafka.NewEvent(EventBookingCreated, key, &BookingCreatedEvent{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		DomainID:   b.DomainID,
		CompanyID:  b.CompanyID,
		Email:      b.Email,
		Date:       b.Date.Format(domain.BookingDateLayout),
		Slot:       b.Slot,
	})
	if err == nil {
		err = a.publisher.Publish(ctx, a.bookingTopic, event)
	}
	if err != nil {
		a.log.WarnContext(ctx, "failed to publish booking event",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
