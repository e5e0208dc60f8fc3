package payment

import (
	"context"
	"errors"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// ErrNotConfigured is returned when a provider has no credentials
var ErrNotConfigured = errors.New("payment provider not configured")

// Gateway onboards a company onto a payment provider
type Gateway interface {
	// CreateConnectAccount opens a connected account for a company
	CreateConnectAccount(ctx context.Context, req *ConnectAccountRequest) (*ConnectAccount, error)

	// CreateOnboardingLink returns the hosted onboarding URL for an account
	CreateOnboardingLink(ctx context.Context, req *OnboardingLinkRequest) (string, error)

	// IsAccountReady reports whether the account can accept charges
	IsAccountReady(ctx context.Context, accountID string) (bool, error)

	// Provider returns the provider this gateway talks to
	Provider() domain.PaymentProvider
}

// ConnectAccountRequest describes the company being onboarded
type ConnectAccountRequest struct {
	CompanyID   string
	CompanyName string
	Email       string
	// Country overrides the gateway's default country when set
	Country string
}

// ConnectAccount is a provider account created for a company
type ConnectAccount struct {
	AccountID        string
	ChargesEnabled   bool
	DetailsSubmitted bool
}

// OnboardingLinkRequest holds the URLs the provider sends the user back to
type OnboardingLinkRequest struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
}

// GatewayConfig holds common gateway configuration
type GatewayConfig struct {
	SecretKey string
	Country   string
}
