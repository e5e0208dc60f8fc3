package action

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
	"github.com/amrivadeneyra/lunari-sub002/internal/repository"
	"github.com/amrivadeneyra/lunari-sub002/pkg/kafka"
	redispkg "github.com/amrivadeneyra/lunari-sub002/pkg/redis"
)

var errStore = errors.New("store unavailable")

type memStore struct {
	companies []*domain.Company
	domains   []*domain.Domain
	customers []*domain.Customer
	responses map[string][]*domain.CustomerResponse
	bookings  []*domain.Booking
	products  []*domain.Product
	payments  []*domain.PaymentConnection
	fail      bool
}

func (s *memStore) repositories() Repositories {
	return Repositories{
		Companies: memCompanies{s},
		Domains:   memDomains{s},
		Customers: memCustomers{s},
		Bookings:  &memBookings{s: s},
		Products:  memProducts{s},
		Payments:  memPayments{s},
	}
}

type memCompanies struct{ s *memStore }

func (r memCompanies) GetByID(_ context.Context, id string) (*domain.Company, error) {
	if r.s.fail {
		return nil, errStore
	}
	for _, c := range r.s.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r memCompanies) GetByOwner(_ context.Context, userID string) (*domain.Company, error) {
	if r.s.fail {
		return nil, errStore
	}
	for _, c := range r.s.companies {
		if c.OwnerUserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

type memDomains struct{ s *memStore }

func (r memDomains) GetByID(_ context.Context, id string) (*domain.Domain, error) {
	if r.s.fail {
		return nil, errStore
	}
	for _, d := range r.s.domains {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (r memDomains) FindForOwner(ctx context.Context, userID, name string) ([]*domain.Domain, error) {
	all, err := r.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Domain, 0)
	for _, d := range all {
		if strings.Contains(d.Name, name) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r memDomains) ListByOwner(ctx context.Context, userID string) ([]*domain.Domain, error) {
	company, err := memCompanies(r).GetByOwner(ctx, userID)
	if err != nil || company == nil {
		return []*domain.Domain{}, err
	}
	out := make([]*domain.Domain, 0)
	for _, d := range r.s.domains {
		if d.CompanyID == company.ID {
			out = append(out, d)
		}
	}
	return out, nil
}

type memCustomers struct{ s *memStore }

func (r memCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if r.s.fail {
		return nil, errStore
	}
	for _, c := range r.s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r memCustomers) ListResponses(_ context.Context, customerID string) ([]*domain.CustomerResponse, error) {
	return r.s.responses[customerID], nil
}

type memBookings struct {
	s  *memStore
	mu sync.Mutex
}

func (r *memBookings) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.s.bookings {
		sameCalendar := existing.DomainID == b.DomainID && (b.DomainID != "" || existing.CompanyID == b.CompanyID)
		if sameCalendar && existing.Date.Equal(b.Date) && existing.Slot == b.Slot {
			return repository.ErrDuplicateSlot
		}
	}
	r.s.bookings = append(r.s.bookings, b)
	return nil
}

func (r *memBookings) SlotTaken(_ context.Context, domainID, companyID string, date time.Time, slot string) (bool, error) {
	for _, b := range r.s.bookings {
		sameTenant := (domainID != "" && b.DomainID == domainID) ||
			(domainID == "" && b.DomainID == "" && b.CompanyID == companyID)
		if sameTenant && b.Date.Equal(date) && b.Slot == slot {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookings) ListByCompany(_ context.Context, companyID string) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookings) ListByDomain(_ context.Context, domainID string) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.DomainID == domainID {
			out = append(out, b)
		}
	}
	return out, nil
}

type memProducts struct{ s *memStore }

func (r memProducts) ListByDomain(_ context.Context, domainID string) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0)
	for _, p := range r.s.products {
		if p.DomainID == domainID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Get(_ context.Context, companyID string, provider domain.PaymentProvider) (*domain.PaymentConnection, error) {
	for _, c := range r.s.payments {
		if c.CompanyID == companyID && c.Provider == provider {
			return c, nil
		}
	}
	return nil, nil
}

func (r memPayments) ListByCompany(_ context.Context, companyID string) ([]*domain.PaymentConnection, error) {
	out := make([]*domain.PaymentConnection, 0)
	for _, c := range r.s.payments {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memPayments) Upsert(_ context.Context, conn *domain.PaymentConnection) error {
	for i, c := range r.s.payments {
		if c.CompanyID == conn.CompanyID && c.Provider == conn.Provider {
			r.s.payments[i] = conn
			return nil
		}
	}
	r.s.payments = append(r.s.payments, conn)
	return nil
}

type recordingPublisher struct {
	topics []string
	events []*kafka.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event *kafka.Event) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() {}

// memCache mimics redis.Client's JSON helpers
type memCache struct {
	values map[string]Branding
	gets   int
	sets   int
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]Branding)}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) error {
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return redispkg.ErrCacheMiss
	}
	*dst.(*Branding) = v
	return nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.sets++
	c.values[key] = *value.(*Branding)
	return nil
}
