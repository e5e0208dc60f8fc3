package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

type fakeAccounts struct {
	created *stripe.AccountParams
	account *stripe.Account
	err     error
}

func (f *fakeAccounts) New(params *stripe.AccountParams) (*stripe.Account, error) {
	f.created = params
	return f.account, f.err
}

func (f *fakeAccounts) GetByID(id string, _ *stripe.AccountParams) (*stripe.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	acct := *f.account
	acct.ID = id
	return &acct, nil
}

type fakeLinks struct {
	params *stripe.AccountLinkParams
}

func (f *fakeLinks) New(params *stripe.AccountLinkParams) (*stripe.AccountLink, error) {
	f.params = params
	return &stripe.AccountLink{URL: "https://connect.stripe.com/setup/e/" + *params.Account}, nil
}

func TestNewStripeGateway_NotConfigured(t *testing.T) {
	_, err := NewStripeGateway(&GatewayConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewStripeGateway(nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewStripeGateway(t *testing.T) {
	g, err := NewStripeGateway(&GatewayConfig{SecretKey: "sk_test_123"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProviderStripe, g.Provider())
	assert.Equal(t, "US", g.country)
}

func TestStripeGateway_CreateConnectAccount(t *testing.T) {
	accounts := &fakeAccounts{account: &stripe.Account{ID: "acct_1"}}
	g := newStripeGateway(accounts, &fakeLinks{}, "AR")
	ctx := context.Background()

	acct, err := g.CreateConnectAccount(ctx, &ConnectAccountRequest{
		CompanyID:   "company-1",
		CompanyName: "Acme",
		Email:       "owner@acme.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "acct_1", acct.AccountID)
	assert.False(t, acct.ChargesEnabled)

	require.NotNil(t, accounts.created)
	assert.Equal(t, "express", *accounts.created.Type)
	assert.Equal(t, "AR", *accounts.created.Country)
	assert.Equal(t, "Acme", *accounts.created.BusinessProfile.Name)
	assert.Equal(t, "company-1", accounts.created.Metadata["company_id"])
	assert.Equal(t, ctx, accounts.created.Context)
}

func TestStripeGateway_CreateConnectAccount_CountryOverride(t *testing.T) {
	accounts := &fakeAccounts{account: &stripe.Account{ID: "acct_2"}}
	g := newStripeGateway(accounts, &fakeLinks{}, "AR")

	_, err := g.CreateConnectAccount(context.Background(), &ConnectAccountRequest{
		CompanyID: "company-1",
		Country:   "MX",
	})
	require.NoError(t, err)
	assert.Equal(t, "MX", *accounts.created.Country)
}

func TestStripeGateway_CreateConnectAccount_Error(t *testing.T) {
	g := newStripeGateway(&fakeAccounts{err: errors.New("boom")}, &fakeLinks{}, "")

	_, err := g.CreateConnectAccount(context.Background(), &ConnectAccountRequest{CompanyID: "c"})
	assert.ErrorContains(t, err, "stripe: create account")
}

func TestStripeGateway_CreateOnboardingLink(t *testing.T) {
	links := &fakeLinks{}
	g := newStripeGateway(&fakeAccounts{}, links, "")

	url, err := g.CreateOnboardingLink(context.Background(), &OnboardingLinkRequest{
		AccountID:  "acct_1",
		RefreshURL: "https://app.lunari.dev/settings",
		ReturnURL:  "https://app.lunari.dev/api/payment/stripe/callback",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/setup/e/acct_1", url)
	assert.Equal(t, "account_onboarding", *links.params.Type)
	assert.Equal(t, "https://app.lunari.dev/settings", *links.params.RefreshURL)
}

func TestStripeGateway_IsAccountReady(t *testing.T) {
	tests := []struct {
		name    string
		account stripe.Account
		want    bool
	}{
		{"onboarded", stripe.Account{DetailsSubmitted: true, ChargesEnabled: true}, true},
		{"details pending", stripe.Account{ChargesEnabled: true}, false},
		{"charges disabled", stripe.Account{DetailsSubmitted: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := tt.account
			g := newStripeGateway(&fakeAccounts{account: &acct}, &fakeLinks{}, "")

			ready, err := g.IsAccountReady(context.Background(), "acct_1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ready)
		})
	}
}
