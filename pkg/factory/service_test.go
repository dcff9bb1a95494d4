package factory

import (
	"context"
	"testing"
	"time"

	"github.com/mcsoccercamp/camp-api/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
)

type pingOnlyCache struct{}

func (pingOnlyCache) Ping(context.Context) error { return nil }

func TestDefaultRateLimiterFactory_FallsBackToMemory(t *testing.T) {
	f := NewDefaultRateLimiterFactory(pingOnlyCache{}, nil)

	limiter := f.CreateRateLimiter(3, time.Minute)

	_, inMemory := limiter.(*ratelimit.InMemoryRateLimiter)
	assert.True(t, inMemory)
	assert.False(t, f.Distributed())

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 3, requests)
	assert.Equal(t, time.Minute, window)
}

func TestDefaultRateLimiterFactory_NilCache(t *testing.T) {
	f := NewDefaultRateLimiterFactory(nil, nil)
	assert.NotNil(t, f.CreateRateLimiter(1, time.Second))
}
