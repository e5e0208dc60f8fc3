package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// ErrDuplicateSlot is returned when a booking collides with an existing one
// on the same calendar, date and slot
var ErrDuplicateSlot = errors.New("booking slot already taken")

// Lookups return nil, nil when the record does not exist. Keys that are not
// UUIDs cannot exist, so they miss without a query.

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CompanyRepository defines data access for companies
type CompanyRepository interface {
	// GetByID retrieves a company by ID
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	// GetByOwner retrieves the company owned by a user
	GetByOwner(ctx context.Context, userID string) (*domain.Company, error)
}

// DomainRepository defines data access for domains
type DomainRepository interface {
	// GetByID retrieves a domain by ID
	GetByID(ctx context.Context, id string) (*domain.Domain, error)
	// FindForOwner lists the owner's domains whose name contains name, exact match first
	FindForOwner(ctx context.Context, userID, name string) ([]*domain.Domain, error)
	// ListByOwner lists every domain of the user's company
	ListByOwner(ctx context.Context, userID string) ([]*domain.Domain, error)
}

// CustomerRepository defines data access for portal customers
type CustomerRepository interface {
	// GetByID retrieves a customer by ID
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// ListResponses lists the customer's intake questions in display order
	ListResponses(ctx context.Context, customerID string) ([]*domain.CustomerResponse, error)
}

// BookingRepository defines data access for appointments
type BookingRepository interface {
	// Create stores a booking, returning ErrDuplicateSlot on collision
	Create(ctx context.Context, booking *domain.Booking) error
	// SlotTaken reports whether a slot is already booked on the same calendar
	SlotTaken(ctx context.Context, domainID, companyID string, date time.Time, slot string) (bool, error)
	// ListByCompany lists bookings of a company, newest date first
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Booking, error)
	// ListByDomain lists bookings of a domain, newest date first
	ListByDomain(ctx context.Context, domainID string) ([]*domain.Booking, error)
}

// ProductRepository defines data access for catalog products
type ProductRepository interface {
	// ListByDomain lists a domain's products by name
	ListByDomain(ctx context.Context, domainID string) ([]*domain.Product, error)
}

// PaymentConnectionRepository defines data access for payment integrations
type PaymentConnectionRepository interface {
	// Get retrieves a company's connection for one provider
	Get(ctx context.Context, companyID string, provider domain.PaymentProvider) (*domain.PaymentConnection, error)
	// ListByCompany lists all connections of a company
	ListByCompany(ctx context.Context, companyID string) ([]*domain.PaymentConnection, error)
	// Upsert creates or replaces a connection
	Upsert(ctx context.Context, conn *domain.PaymentConnection) error
}
