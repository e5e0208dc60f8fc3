package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

type accountAPI interface {
	New(params *stripe.AccountParams) (*stripe.Account, error)
	GetByID(id string, params *stripe.AccountParams) (*stripe.Account, error)
}

type accountLinkAPI interface {
	New(params *stripe.AccountLinkParams) (*stripe.AccountLink, error)
}

// StripeGateway implements Gateway with Stripe Connect express accounts
type StripeGateway struct {
	accounts     accountAPI
	accountLinks accountLinkAPI
	country      string
}

// NewStripeGateway creates a gateway using the Stripe secret key in cfg
func NewStripeGateway(cfg *GatewayConfig) (*StripeGateway, error) {
	if cfg == nil || cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	sc := client.New(cfg.SecretKey, nil)
	return newStripeGateway(sc.Accounts, sc.AccountLinks, cfg.Country), nil
}

func newStripeGateway(accounts accountAPI, links accountLinkAPI, country string) *StripeGateway {
	if country == "" {
		country = "US"
	}
	return &StripeGateway{accounts: accounts, accountLinks: links, country: country}
}

// Provider returns the provider this gateway talks to
func (g *StripeGateway) Provider() domain.PaymentProvider {
	return domain.PaymentProviderStripe
}

// CreateConnectAccount opens an express account with card payments and transfers requested
func (g *StripeGateway) CreateConnectAccount(ctx context.Context, req *ConnectAccountRequest) (*ConnectAccount, error) {
	country := req.Country
	if country == "" {
		country = g.country
	}
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String(country),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.CompanyName != "" {
		params.BusinessProfile = &stripe.AccountBusinessProfileParams{Name: stripe.String(req.CompanyName)}
	}
	params.Context = ctx
	params.AddMetadata("company_id", req.CompanyID)

	acct, err := g.accounts.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create account: %w", describe(err))
	}

	return &ConnectAccount{
		AccountID:        acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}, nil
}

// CreateOnboardingLink returns the hosted onboarding URL for an account
func (g *StripeGateway) CreateOnboardingLink(ctx context.Context, req *OnboardingLinkRequest) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(req.AccountID),
		RefreshURL: stripe.String(req.RefreshURL),
		ReturnURL:  stripe.String(req.ReturnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := g.accountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create account link: %w", describe(err))
	}
	return link.URL, nil
}

// IsAccountReady reports whether onboarding finished and charges are enabled
func (g *StripeGateway) IsAccountReady(ctx context.Context, accountID string) (bool, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := g.accounts.GetByID(accountID, params)
	if err != nil {
		return false, fmt.Errorf("stripe: get account: %w", describe(err))
	}
	return acct.DetailsSubmitted && acct.ChargesEnabled, nil
}

// describe keeps the Stripe error code in the message
func describe(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Code != "" {
		return fmt.Errorf("%s (%s): %w", stripeErr.Msg, stripeErr.Code, err)
	}
	return err
}
