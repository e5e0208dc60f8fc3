package view

import (
	"github.com/shopspring/decimal"

	"github.com/amrivadeneyra/lunari-sub002/internal/action"
	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// Layout is the shared data of dashboard pages
type Layout struct {
	Title         string
	SidebarExpand *bool
	Domains       []action.DomainSummary
}

// DashboardPage lists the account's domains
type DashboardPage struct {
	Layout
}

// DomainSettingsPage is rendered for a resolved domain
type DomainSettingsPage struct {
	Layout
	DomainID string
	Name     string
}

// CatalogPage lists a domain's products
type CatalogPage struct {
	Layout
	DomainID string
	Name     string
	Products []*domain.Product
}

// CompanyPage is rendered for the account's company
type CompanyPage struct {
	Layout
	CompanyID        string
	Name             string
	Icon             string
	PaymentConnected bool
}

// AppointmentPage lists the company's bookings
type AppointmentPage struct {
	Layout
	CompanyID string
	Bookings  []*domain.Booking
}

// ProviderStatus is one payment integration row on the settings page
type ProviderStatus struct {
	Provider  domain.PaymentProvider
	Connected bool
}

// SettingsPage shows account and integration settings
type SettingsPage struct {
	Layout
	Company       *action.AccountCompany
	Providers     []ProviderStatus
	StripeEnabled bool
}

// ProviderStatuses lists every known provider with its connection state
func ProviderStatuses(conns []*domain.PaymentConnection) []ProviderStatus {
	out := make([]ProviderStatus, 0, len(domain.PaymentProviders))
	for _, p := range domain.PaymentProviders {
		status := ProviderStatus{Provider: p}
		for _, c := range conns {
			if c != nil && c.Provider == p {
				status.Connected = c.Connected
			}
		}
		out = append(out, status)
	}
	return out
}

// Tenant kinds a portal can be opened for
const (
	TenantDomain  = "domain"
	TenantCompany = "company"
)

// PortalContext is shared by every page inside the portal layout. Branding
// is nil when the tenant lookup failed; the page still renders.
type PortalContext struct {
	TenantKind string
	TenantID   string
	CustomerID string
	Branding   *action.Branding
}

// BasePath is the portal root for this tenant and customer
func (p PortalContext) BasePath() string {
	return "/portal/" + p.TenantKind + "/" + p.TenantID + "/" + p.CustomerID
}

// BookingPath is where the booking form posts to
func (p PortalContext) BookingPath() string {
	return p.BasePath() + "/bookings"
}

// PortalBookingPage is the appointment form shown to a customer
type PortalBookingPage struct {
	Portal    PortalContext
	Email     string
	Questions []domain.CustomerResponse
	Bookings  []*domain.Booking
	Slots     []string
	Error     string
}

// PortalPaymentPage lists what the customer pays for
type PortalPaymentPage struct {
	Portal   PortalContext
	Products []*domain.Product
}

// Total sums the product prices
func (p PortalPaymentPage) Total() string {
	total := decimal.Zero
	for _, prod := range p.Products {
		total = total.Add(prod.Price)
	}
	return total.StringFixed(2)
}
