package di

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrivadeneyra/lunari-sub002/internal/action"
	"github.com/amrivadeneyra/lunari-sub002/internal/handler"
	"github.com/amrivadeneyra/lunari-sub002/pkg/kafka"
)

func TestNewContainer_WithRepositoryOverride(t *testing.T) {
	c := NewContainer(&ContainerConfig{
		Repos:            &action.Repositories{},
		Publisher:        kafka.NoopPublisher{},
		BrandingCacheTTL: time.Minute,
		Page:             &handler.PageHandlerConfig{FallbackRoute: "/home"},
	})

	require.NotNil(t, c.Actions)
	assert.NotNil(t, c.HealthHandler)
	assert.NotNil(t, c.PageHandler)
	assert.NotNil(t, c.PortalHandler)
	assert.NotNil(t, c.PaymentHandler)
	assert.Nil(t, c.Gateway)

	c.Close()
}
