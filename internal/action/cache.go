package action

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
)

// Cache stores JSON values. *redis.Client satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// brandingCache serves GetCompanyInfo and GetDomainInfo from a read-through
// cache and delegates everything else. Missing tenants are not cached.
type brandingCache struct {
	Actions
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

// WithBrandingCache wraps next with a branding cache. A nil cache or a
// non-positive ttl returns next unchanged.
func WithBrandingCache(next Actions, cache Cache, ttl time.Duration, log *logger.Logger) Actions {
	if cache == nil || ttl <= 0 {
		return next
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &brandingCache{Actions: next, cache: cache, ttl: ttl, log: log}
}

func (c *brandingCache) GetCompanyInfo(ctx context.Context, companyID string) (*Branding, error) {
	return c.lookup(ctx, "branding:company:"+companyID, func() (*Branding, error) {
		return c.Actions.GetCompanyInfo(ctx, companyID)
	})
}

func (c *brandingCache) GetDomainInfo(ctx context.Context, domainID string) (*Branding, error) {
	return c.lookup(ctx, "branding:domain:"+domainID, func() (*Branding, error) {
		return c.Actions.GetDomainInfo(ctx, domainID)
	})
}

func (c *brandingCache) lookup(ctx context.Context, key string, load func() (*Branding, error)) (*Branding, error) {
	var cached Branding
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	branding, err := load()
	if err != nil || branding == nil {
		return branding, err
	}

	if err := c.cache.SetJSON(ctx, key, branding, c.ttl); err != nil {
		c.log.WarnContext(ctx, "failed to cache branding", zap.String("key", key), zap.Error(err))
	}
	return branding, nil
}
