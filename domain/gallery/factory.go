package gallery

import (
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
)

type GalleryServiceFactory interface {
	CreateService() GalleryService
	CreateController() *router.RESTController
}

type Options struct {
	Dir      string
	Manifest string
	BaseURL  string
	CacheTTL time.Duration
}

type DefaultGalleryServiceFactory struct {
	logger   *log.Logger
	cache    Cache
	opts     Options
	limiters factory.RateLimiterFactory
}

func NewGalleryServiceFactory(logger *log.Logger, cache Cache, opts Options, limiters factory.RateLimiterFactory) GalleryServiceFactory {
	return &DefaultGalleryServiceFactory{
		logger:   logger,
		cache:    cache,
		opts:     opts,
		limiters: limiters,
	}
}

func (f *DefaultGalleryServiceFactory) CreateService() GalleryService {
	return NewGalleryService(f.logger, NewSource(f.opts.Dir, f.opts.Manifest), f.opts.BaseURL, f.cache, f.opts.CacheTTL)
}

func (f *DefaultGalleryServiceFactory) CreateController() *router.RESTController {
	return NewGalleryController(f.CreateService(), f.limiters)
}
