package action

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
	"github.com/amrivadeneyra/lunari-sub002/internal/repository"
	"github.com/amrivadeneyra/lunari-sub002/pkg/kafka"
)

var testToday = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newStore() *memStore {
	return &memStore{
		companies: []*domain.Company{
			{ID: "company-1", OwnerUserID: "user-1", Name: "Acme", Icon: "https://ucarecdn.com/acme/"},
			{ID: "company-2", OwnerUserID: "user-2", Name: "Empty Co"},
		},
		domains: []*domain.Domain{
			{ID: "abc", CompanyID: "company-1", Name: "acme.com"},
			{ID: "def", CompanyID: "company-1", Name: "shop.acme.com"},
		},
		customers: []*domain.Customer{
			{ID: "customer-1", DomainID: "abc", CompanyID: "company-1", Email: "jane@example.com"},
		},
		responses: map[string][]*domain.CustomerResponse{
			"customer-1": {
				{ID: "q1", Question: "Name?", Answered: "Jane"},
				{ID: "q2", Question: "Phone?"},
			},
		},
		payments: []*domain.PaymentConnection{
			{CompanyID: "company-1", Provider: domain.PaymentProviderMercadoPago, Connected: true},
		},
	}
}

func newTestActions(s *memStore, pub *recordingPublisher) Actions {
	var publisher kafka.Publisher
	if pub != nil {
		publisher = pub
	}
	return NewActions(s.repositories(), publisher, "booking.created", nil, WithClock(func() time.Time { return testToday }))
}

func TestOnGetCurrentDomainInfo(t *testing.T) {
	ctx := context.Background()
	a := newTestActions(newStore(), nil)

	t.Run("matching domain", func(t *testing.T) {
		info, err := a.OnGetCurrentDomainInfo(ctx, "user-1", "shop")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Len(t, info.Domains, 1)
		assert.Equal(t, "def", info.Domains[0].ID)
		assert.Equal(t, "shop.acme.com", info.Domains[0].Name)
	})

	t.Run("no match gives empty domains", func(t *testing.T) {
		info, err := a.OnGetCurrentDomainInfo(ctx, "user-1", "unknown")
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Empty(t, info.Domains)
	})

	t.Run("user without company", func(t *testing.T) {
		info, err := a.OnGetCurrentDomainInfo(ctx, "user-9", "acme")
		assert.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("anonymous", func(t *testing.T) {
		info, err := a.OnGetCurrentDomainInfo(ctx, "", "acme")
		assert.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("store error", func(t *testing.T) {
		s := newStore()
		s.fail = true
		_, err := newTestActions(s, nil).OnGetCurrentDomainInfo(ctx, "user-1", "acme")
		assert.ErrorIs(t, err, errStore)
	})
}

func TestOnGetAccountCompany(t *testing.T) {
	ctx := context.Background()
	a := newTestActions(newStore(), nil)

	company, err := a.OnGetAccountCompany(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "company-1", company.Company.ID)

	missing, err := a.OnGetAccountCompany(ctx, "user-9")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOnGetPaymentConnected(t *testing.T) {
	ctx := context.Background()
	a := newTestActions(newStore(), nil)

	connected, err := a.OnGetPaymentConnected(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, connected)

	connected, err = a.OnGetPaymentConnected(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, connected)

	connected, err = a.OnGetPaymentConnected(ctx, "user-9")
	require.NoError(t, err)
	assert.False(t, connected)
}

func TestOnSavePaymentConnection(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	a := newTestActions(s, nil)

	err := a.OnSavePaymentConnection(ctx, &domain.PaymentConnection{CompanyID: "company-2", Provider: "paypal"})
	assert.Error(t, err)

	require.NoError(t, a.OnSavePaymentConnection(ctx, &domain.PaymentConnection{
		CompanyID: "company-2",
		Provider:  domain.PaymentProviderStripe,
		AccountID: "acct_1",
		Connected: true,
	}))
	connected, err := a.OnGetPaymentConnected(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestBranding(t *testing.T) {
	ctx := context.Background()
	a := newTestActions(newStore(), nil)

	company, err := a.GetCompanyInfo(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, &Branding{Name: "Acme", Icon: "https://ucarecdn.com/acme/"}, company)

	d, err := a.GetDomainInfo(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "acme.com", d.Name)

	missing, err := a.GetDomainInfo(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOnCompanyCustomerResponses(t *testing.T) {
	ctx := context.Background()
	a := newTestActions(newStore(), nil)

	resp, err := a.OnCompanyCustomerResponses(ctx, "customer-1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "jane@example.com", resp.Email)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, "Jane", resp.Questions[0].Answered)

	missing, err := a.OnCompanyCustomerResponses(ctx, "customer-9")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOnGetUserDomains(t *testing.T) {
	ctx := context.Background()
	a := newTestActions(newStore(), nil)

	domains, err := a.OnGetUserDomains(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, domains, 2)

	domains, err = a.OnGetUserDomains(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, domains)
}

func TestOnBookAppointment(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("books and publishes", func(t *testing.T) {
		s := newStore()
		pub := &recordingPublisher{}
		a := newTestActions(s, pub)

		booking, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID:   "abc",
			CustomerID: "customer-1",
			Date:       date,
			Slot:       " 4:00pm ",
		})
		require.NoError(t, err)
		assert.Equal(t, "company-1", booking.CompanyID)
		assert.Equal(t, "jane@example.com", booking.Email)
		assert.Equal(t, "4:00pm", booking.Slot)

		bookings, err := a.OnGetAllDomainBookings(ctx, "abc")
		require.NoError(t, err)
		assert.Len(t, bookings, 1)

		require.Len(t, pub.events, 1)
		assert.Equal(t, "booking.created", pub.topics[0])
		assert.Equal(t, EventBookingCreated, pub.events[0].Type)
		assert.Equal(t, "abc", pub.events[0].Key)

		var payload BookingCreatedEvent
		require.NoError(t, json.Unmarshal(pub.events[0].Data, &payload))
		assert.Equal(t, booking.ID, payload.BookingID)
		assert.Equal(t, "2026-03-12", payload.Date)
	})

	t.Run("slot taken", func(t *testing.T) {
		s := newStore()
		s.bookings = []*domain.Booking{{ID: "b0", DomainID: "abc", CompanyID: "company-1", Date: date, Slot: "4:00pm"}}
		a := newTestActions(s, &recordingPublisher{})

		_, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "abc", CustomerID: "customer-1", Date: date, Slot: "4:00pm",
		})
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("company calendar", func(t *testing.T) {
		s := newStore()
		a := newTestActions(s, nil)

		booking, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			CompanyID: "company-1", CustomerID: "customer-1", Date: date, Slot: "5:00pm",
		})
		require.NoError(t, err)
		assert.Empty(t, booking.DomainID)

		bookings, err := a.OnGetAllCompanyBookings(ctx, "company-1")
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("company slot taken", func(t *testing.T) {
		s := newStore()
		s.bookings = []*domain.Booking{{ID: "b0", CompanyID: "company-1", Date: date, Slot: "5:00pm"}}
		a := newTestActions(s, nil)

		_, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			CompanyID: "company-1", CustomerID: "customer-1", Date: date, Slot: "5:00pm",
		})
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("domain and company calendars are independent", func(t *testing.T) {
		s := newStore()
		a := newTestActions(s, nil)

		_, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "abc", CustomerID: "customer-1", Date: date, Slot: "7:00pm",
		})
		require.NoError(t, err)

		_, err = a.OnBookAppointment(ctx, &BookAppointmentRequest{
			CompanyID: "company-1", CustomerID: "customer-1", Date: date, Slot: "7:00pm",
		})
		require.NoError(t, err)

		_, err = a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "def", CustomerID: "customer-1", Date: date, Slot: "7:00pm",
		})
		require.NoError(t, err)
		assert.Len(t, s.bookings, 3)
	})

	t.Run("publish failure keeps booking", func(t *testing.T) {
		s := newStore()
		a := newTestActions(s, &recordingPublisher{err: errors.New("broker down")})

		booking, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "abc", CustomerID: "customer-1", Date: date, Slot: "6:00pm",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.Len(t, s.bookings, 1)
	})

	t.Run("validation", func(t *testing.T) {
		a := newTestActions(newStore(), nil)

		_, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "abc", CustomerID: "customer-1", Date: testToday.AddDate(0, 0, -1), Slot: "4:00pm",
		})
		assert.ErrorIs(t, err, domain.ErrBookingDateInPast)

		_, err = a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "abc", CustomerID: "customer-1", Date: date, Slot: "11:00am",
		})
		assert.ErrorIs(t, err, domain.ErrBookingSlotInvalid)
	})

	t.Run("unknown customer or tenant", func(t *testing.T) {
		a := newTestActions(newStore(), nil)

		_, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "abc", CustomerID: "customer-9", Date: date, Slot: "4:00pm",
		})
		assert.ErrorIs(t, err, ErrCustomerNotFound)

		_, err = a.OnBookAppointment(ctx, &BookAppointmentRequest{
			DomainID: "zzz", CustomerID: "customer-1", Date: date, Slot: "4:00pm",
		})
		assert.ErrorIs(t, err, ErrTenantNotFound)

		_, err = a.OnBookAppointment(ctx, &BookAppointmentRequest{
			CustomerID: "customer-1", Date: date, Slot: "4:00pm",
		})
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})
}

func TestMalformedIDsMissInPostgresStores(t *testing.T) {
	ctx := context.Background()
	a := NewActions(Repositories{
		Companies: repository.NewPostgresCompanyRepository(nil),
		Domains:   repository.NewPostgresDomainRepository(nil),
		Customers: repository.NewPostgresCustomerRepository(nil),
		Bookings:  repository.NewPostgresBookingRepository(nil),
		Products:  repository.NewPostgresProductRepository(nil),
		Payments:  repository.NewPostgresPaymentConnectionRepository(nil),
	}, nil, "", nil, WithClock(func() time.Time { return testToday }))
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	_, err := a.OnBookAppointment(ctx, &BookAppointmentRequest{
		DomainID: "d1", CustomerID: "c1", Date: date, Slot: "4:00pm",
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	resp, err := a.OnCompanyCustomerResponses(ctx, "c1")
	assert.NoError(t, err)
	assert.Nil(t, resp)

	branding, err := a.GetDomainInfo(ctx, "d1")
	assert.NoError(t, err)
	assert.Nil(t, branding)

	branding, err = a.GetCompanyInfo(ctx, "co-1")
	assert.NoError(t, err)
	assert.Nil(t, branding)

	bookings, err := a.OnGetAllDomainBookings(ctx, "d1")
	assert.NoError(t, err)
	assert.Empty(t, bookings)
}
