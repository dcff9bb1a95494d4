package gallery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/log"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
)

const cacheKeyPrefix = "gallery:v1:"

// Cache is the slice of the shared cache the gallery needs.
type Cache interface {
	// Get returns ("", nil) on a miss.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type GalleryService interface {
	List(ctx context.Context) (*GalleryResponse, error)
}

type galleryService struct {
	logger  *log.Logger
	source  Source
	baseURL string
	cache   Cache
	ttl     time.Duration
}

// NewGalleryService caches listings when cache is non-nil and ttl is positive.
func NewGalleryService(logger *log.Logger, source Source, baseURL string, cache Cache, ttl time.Duration) GalleryService {
	return &galleryService{
		logger:  logger,
		source:  source,
		baseURL: baseURL,
		cache:   cache,
		ttl:     ttl,
	}
}

func (s *galleryService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *galleryService) List(ctx context.Context) (*GalleryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)
	key := cacheKeyPrefix + s.source.Name()

	if s.cacheEnabled() {
		if cached, ok := s.fromCache(ctx, logger, key); ok {
			return cached, nil
		}
	}

	filenames, err := s.source.Filenames(ctx)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Error("Failed to list gallery media", "source", s.source.Name(), "error", err)
		}
		return nil, err
	}

	items := BuildItems(filenames, s.baseURL)
	response := &GalleryResponse{Media: items, Count: len(items)}

	logger.Info("Gallery listed", "source", s.source.Name(), "count", response.Count)

	if s.cacheEnabled() {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
				logger.Warn("Failed to cache gallery listing", "error", err)
			}
		}
	}

	return response, nil
}

func (s *galleryService) fromCache(ctx context.Context, logger *log.Logger, key string) (*GalleryResponse, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Gallery cache read failed", "error", err)
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var cached GalleryResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		logger.Warn("Discarding unreadable gallery cache entry", "error", err)
		return nil, false
	}
	return &cached, true
}
