package action

import (
	"time"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// DomainSummary is the slice of a domain shown in navigation and settings
type DomainSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// CurrentDomainInfo holds the signed-in user's domains matching a lookup
type CurrentDomainInfo struct {
	Domains []DomainSummary `json:"domains"`
}

// AccountCompany is the company owned by the signed-in user
type AccountCompany struct {
	Company domain.Company `json:"company"`
}

// Branding is the name and icon shown on a tenant's portal
type Branding struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// CustomerResponses is the intake form state of a portal customer
type CustomerResponses struct {
	Email     string                    `json:"email"`
	Questions []domain.CustomerResponse `json:"questions"`
}

// BookAppointmentRequest asks for a slot on a domain or company calendar.
// DomainID takes precedence when both are set.
type BookAppointmentRequest struct {
	DomainID   string
	CompanyID  string
	CustomerID string
	Date       time.Time
	Slot       string
}

// BookingCreatedEvent is published after an appointment is stored
type BookingCreatedEvent struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	DomainID   string `json:"domain_id,omitempty"`
	CompanyID  string `json:"company_id,omitempty"`
	Email      string `json:"email"`
	Date       string `json:"date"`
	Slot       string `json:"slot"`
}

func toDomainSummaries(domains []*domain.Domain) []DomainSummary {
	out := make([]DomainSummary, 0, len(domains))
	for _, d := range domains {
		out = append(out, DomainSummary{ID: d.ID, Name: d.Name, Icon: d.Icon})
	}
	return out
}
