package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/amrivadeneyra/lunari-sub002/internal/action"
	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
	"github.com/amrivadeneyra/lunari-sub002/internal/payment"
)

var errMockFailure = errors.New("mock failure")

// mockActions returns canned results and records writes
type mockActions struct {
	mu sync.Mutex

	DomainInfo    *action.CurrentDomainInfo
	DomainInfoErr error
	Company       *action.AccountCompany
	CompanyErr    error
	Connections   []*domain.PaymentConnection
	ConnErr       error
	Branding      *action.Branding
	BrandingErr   error
	Responses     *action.CustomerResponses
	Bookings      []*domain.Booking
	UserDomains   []action.DomainSummary
	Products      []*domain.Product
	BookErr       error

	Saved        []*domain.PaymentConnection
	BookRequests []*action.BookAppointmentRequest
	LookedUp     []string
}

func (m *mockActions) OnGetCurrentDomainInfo(ctx context.Context, userID, name string) (*action.CurrentDomainInfo, error) {
	m.mu.Lock()
	m.LookedUp = append(m.LookedUp, userID+"/"+name)
	m.mu.Unlock()
	return m.DomainInfo, m.DomainInfoErr
}

func (m *mockActions) OnGetAccountCompany(ctx context.Context, userID string) (*action.AccountCompany, error) {
	return m.Company, m.CompanyErr
}

func (m *mockActions) OnGetPaymentConnected(ctx context.Context, userID string) (bool, error) {
	return domain.AnyConnected(m.Connections), m.ConnErr
}

func (m *mockActions) OnGetPaymentConnections(ctx context.Context, userID string) ([]*domain.PaymentConnection, error) {
	return m.Connections, m.ConnErr
}

func (m *mockActions) OnSavePaymentConnection(ctx context.Context, conn *domain.PaymentConnection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, conn)
	return nil
}

func (m *mockActions) GetCompanyInfo(ctx context.Context, companyID string) (*action.Branding, error) {
	return m.Branding, m.BrandingErr
}

func (m *mockActions) GetDomainInfo(ctx context.Context, domainID string) (*action.Branding, error) {
	return m.Branding, m.BrandingErr
}

func (m *mockActions) OnCompanyCustomerResponses(ctx context.Context, customerID string) (*action.CustomerResponses, error) {
	return m.Responses, nil
}

func (m *mockActions) OnGetAllCompanyBookings(ctx context.Context, companyID string) ([]*domain.Booking, error) {
	return m.Bookings, nil
}

func (m *mockActions) OnGetAllDomainBookings(ctx context.Context, domainID string) ([]*domain.Booking, error) {
	return m.Bookings, nil
}

func (m *mockActions) OnGetUserDomains(ctx context.Context, userID string) ([]action.DomainSummary, error) {
	return m.UserDomains, nil
}

func (m *mockActions) OnGetDomainProducts(ctx context.Context, domainID string) ([]*domain.Product, error) {
	return m.Products, nil
}

func (m *mockActions) OnBookAppointment(ctx context.Context, req *action.BookAppointmentRequest) (*domain.Booking, error) {
	m.mu.Lock()
	m.BookRequests = append(m.BookRequests, req)
	m.mu.Unlock()
	if m.BookErr != nil {
		return nil, m.BookErr
	}
	return &domain.Booking{
		ID:         "booking-1",
		CustomerID: req.CustomerID,
		DomainID:   req.DomainID,
		CompanyID:  req.CompanyID,
		Date:       req.Date,
		Slot:       req.Slot,
	}, nil
}

// mockGateway is a payment.Gateway with canned answers
type mockGateway struct {
	AccountID  string
	Link       string
	Ready      bool
	CreateErr  error
	Created    int
	Country    string
	LinkReqAcc string
}

func (g *mockGateway) CreateConnectAccount(ctx context.Context, req *payment.ConnectAccountRequest) (*payment.ConnectAccount, error) {
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.Created++
	g.Country = req.Country
	return &payment.ConnectAccount{AccountID: g.AccountID}, nil
}

func (g *mockGateway) CreateOnboardingLink(ctx context.Context, req *payment.OnboardingLinkRequest) (string, error) {
	g.LinkReqAcc = req.AccountID
	return g.Link + "?return=" + req.ReturnURL, nil
}

func (g *mockGateway) IsAccountReady(ctx context.Context, accountID string) (bool, error) {
	return g.Ready, nil
}

func (g *mockGateway) Provider() domain.PaymentProvider {
	return domain.PaymentProviderStripe
}
