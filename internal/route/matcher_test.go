package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MatcherPatterns(t *testing.T) {
	cfg := DefaultConfig()

	assert.Contains(t, cfg.Matcher, `/((?!.*\..*|_next).*)`)
	assert.Contains(t, cfg.Matcher, "/")
	assert.Contains(t, cfg.Matcher, "/(api|trpc)(.*)")
	assert.Len(t, cfg.Matcher, 3)

	// The matcher list never names the public routes; the catch-all still
	// intercepts them and IsPublic lets them through.
	for _, p := range cfg.PublicRoutes {
		assert.NotContains(t, cfg.Matcher, p)
	}
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		path         string
		intercepts   bool
		public       bool
		requiresAuth bool
	}{
		{"/", true, false, true},
		{"/dashboard", true, false, true},
		{"/domain/acme", true, false, true},
		{"/api/payment/connected", true, false, true},
		{"/trpc/bookings.list", true, false, true},
		{"/auth/sign-in", true, true, false},
		{"/portal/domain/d1/c1", true, true, false},
		{"/images/logo.png", false, true, false},
		{"/favicon.ico", false, false, false},
		{"/_next/static/chunk", false, false, false},
		{"/api/file.json", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.intercepts, m.Intercepts(tt.path), "Intercepts")
			assert.Equal(t, tt.public, m.IsPublic(tt.path), "IsPublic")
			assert.Equal(t, tt.requiresAuth, m.RequiresAuth(tt.path), "RequiresAuth")
		})
	}
}

func TestNewMatcher_InvalidPattern(t *testing.T) {
	_, err := NewMatcher(Config{Matcher: []string{"/(unclosed"}})
	assert.Error(t, err)

	assert.Panics(t, func() {
		MustNewMatcher(Config{PublicRoutes: []string{"/(unclosed"}})
	})
}
