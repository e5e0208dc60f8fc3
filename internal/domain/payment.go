package domain

import (
	"time"
)

// PaymentProvider names a payment integration
type PaymentProvider string

const (
	PaymentProviderStripe      PaymentProvider = "stripe"
	PaymentProviderMercadoPago PaymentProvider = "mercadopago"
)

// PaymentProviders lists the integrations shown on the settings page
var PaymentProviders = []PaymentProvider{PaymentProviderStripe, PaymentProviderMercadoPago}

// IsValid reports whether p is a known provider
func (p PaymentProvider) IsValid() bool {
	for _, known := range PaymentProviders {
		if p == known {
			return true
		}
	}
	return false
}

// PaymentConnection records a company's account with a payment provider.
// Connected turns true once the provider reports the account can take charges.
type PaymentConnection struct {
	CompanyID string          `json:"company_id"`
	Provider  PaymentProvider `json:"provider"`
	AccountID string          `json:"account_id,omitempty"`
	Connected bool            `json:"connected"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AnyConnected reports whether at least one connection is live
func AnyConnected(conns []*PaymentConnection) bool {
	for _, c := range conns {
		if c != nil && c.Connected {
			return true
		}
	}
	return false
}
