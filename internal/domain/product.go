package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item listed on a domain
type Product struct {
	ID        string          `json:"id"`
	DomainID  string          `json:"domain_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// DisplayPrice formats the price with two decimals
func (p *Product) DisplayPrice() string {
	return p.Price.StringFixed(2)
}
