package admin

import (
	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"gorm.io/gorm"
)

type AdminServiceFactory interface {
	CreateService() AdminService
	CreateController() *router.RESTController
}

type DefaultAdminServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	adminKey string
	limiters factory.RateLimiterFactory
}

func NewAdminServiceFactory(db *gorm.DB, logger *log.Logger, adminKey string, limiters factory.RateLimiterFactory) AdminServiceFactory {
	return &DefaultAdminServiceFactory{
		db:       db,
		logger:   logger,
		adminKey: adminKey,
		limiters: limiters,
	}
}

func (f *DefaultAdminServiceFactory) CreateService() AdminService {
	return NewAdminService(f.logger, NewAdminRepository(f.db))
}

func (f *DefaultAdminServiceFactory) CreateController() *router.RESTController {
	return NewAdminController(f.db, f.logger, f.adminKey, f.limiters)
}
