package contact

import (
	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"gorm.io/gorm"
)

type ContactServiceFactory interface {
	CreateService() ContactService
	CreateController() *router.RESTController
}

type DefaultContactServiceFactory struct {
	db        *gorm.DB
	logger    *log.Logger
	transport mailer.Mailer
	composer  *mailer.Composer
	limiters  factory.RateLimiterFactory
}

func NewContactServiceFactory(
	db *gorm.DB,
	logger *log.Logger,
	transport mailer.Mailer,
	composer *mailer.Composer,
	limiters factory.RateLimiterFactory,
) ContactServiceFactory {
	return &DefaultContactServiceFactory{
		db:        db,
		logger:    logger,
		transport: transport,
		composer:  composer,
		limiters:  limiters,
	}
}

func (f *DefaultContactServiceFactory) CreateService() ContactService {
	return NewContactService(f.logger, NewContactRepository(f.db), f.transport, f.composer)
}

func (f *DefaultContactServiceFactory) CreateController() *router.RESTController {
	return NewContactController(f.db, f.logger, f.transport, f.composer, f.limiters)
}
