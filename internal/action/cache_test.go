package action

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithBrandingCache_Disabled(t *testing.T) {
	base := newTestActions(newStore(), nil)

	assert.Same(t, base, WithBrandingCache(base, nil, time.Minute, nil))
	assert.Same(t, base, WithBrandingCache(base, newMemCache(), 0, nil))
}

func TestWithBrandingCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cache := newMemCache()
	a := WithBrandingCache(newTestActions(s, nil), cache, time.Minute, nil)

	first, err := a.GetDomainInfo(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "acme.com", first.Name)
	assert.Equal(t, 1, cache.sets)

	// a later rename is hidden until the entry expires
	s.domains[0].Name = "renamed.com"
	second, err := a.GetDomainInfo(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "acme.com", second.Name)
	assert.Equal(t, 1, cache.sets)

	company, err := a.GetCompanyInfo(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.Contains(t, cache.values, "branding:company:company-1")
}

func TestWithBrandingCache_MissingNotCached(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	a := WithBrandingCache(newTestActions(newStore(), nil), cache, time.Minute, nil)

	branding, err := a.GetCompanyInfo(ctx, "company-9")
	require.NoError(t, err)
	assert.Nil(t, branding)
	assert.Equal(t, 0, cache.sets)
}

func TestWithBrandingCache_Delegates(t *testing.T) {
	ctx := context.Background()
	a := WithBrandingCache(newTestActions(newStore(), nil), newMemCache(), time.Minute, nil)

	company, err := a.OnGetAccountCompany(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "company-1", company.Company.ID)
}
