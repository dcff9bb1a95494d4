package waiver

import (
	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/storage"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"gorm.io/gorm"
)

type WaiverServiceFactory interface {
	CreateService() WaiverService
	CreateController() *router.RESTController
}

type DefaultWaiverServiceFactory struct {
	deps     ServiceDeps
	adminKey string
	limiters factory.RateLimiterFactory
}

func NewWaiverServiceFactory(
	db *gorm.DB,
	logger *log.Logger,
	blobs storage.BlobStore,
	adminKey string,
	limiters factory.RateLimiterFactory,
) WaiverServiceFactory {
	return &DefaultWaiverServiceFactory{
		deps: ServiceDeps{
			Logger:     logger,
			Repository: NewWaiverRepository(db),
			Blobs:      blobs,
		},
		adminKey: adminKey,
		limiters: limiters,
	}
}

func (f *DefaultWaiverServiceFactory) CreateService() WaiverService {
	return NewWaiverService(f.deps)
}

func (f *DefaultWaiverServiceFactory) CreateController() *router.RESTController {
	return NewWaiverController(f.deps, f.adminKey, f.limiters)
}
