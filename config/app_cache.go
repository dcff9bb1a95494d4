package config

import (
	"context"
	"errors"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/log"
	pkgredis "github.com/mcsoccercamp/camp-api/pkg/redis"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

// Cache backs the gallery listing cache and the distributed rate limiter.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

var ErrCacheNotConfigured = errors.New("cache: REDIS_URL or REDIS_HOST is not configured")

type CacheConfig struct {
	URL         string
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

func NewCacheConfig() *CacheConfig {
	return &CacheConfig{
		URL:         utils.GetEnvTrimmed("REDIS_URL"),
		Host:        utils.GetEnvTrimmed("REDIS_HOST"),
		Port:        utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password:    GetValueFromEnvironmentVariable("REDIS_PASSWORD", ""),
		DB:          utils.GetEnvInt("REDIS_DB", 0),
		DialTimeout: utils.GetEnvDuration("REDIS_DIAL_TIMEOUT", 3*time.Second),
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.URL != "" || cc.Host != ""
}

// NewCache connects to Redis. Serverless cold starts pay for the ping, so the dial
// timeout is kept short.
func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		URL:         cc.URL,
		Host:        cc.Host,
		Port:        cc.Port,
		Password:    cc.Password,
		DB:          cc.DB,
		DialTimeout: cc.DialTimeout,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cache (Redis) connected", "source", cc.source())
	return cache, nil
}

// NewCacheOrNil degrades to no cache: the gallery is rebuilt per request and rate
// limits fall back to in-memory limiters.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) not configured; gallery caching and shared rate limits disabled")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Error("Cache (Redis) unavailable; continuing without it", "source", cc.source(), "error", err)
		return nil
	}

	return cache
}

func (cc *CacheConfig) source() string {
	if cc.URL != "" {
		return "REDIS_URL"
	}
	return "REDIS_HOST"
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
