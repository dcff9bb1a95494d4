package registration

import (
	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"gorm.io/gorm"
)

type RegistrationServiceFactory interface {
	CreateService() RegistrationService
	CreateController() *router.RESTController
}

type DefaultRegistrationServiceFactory struct {
	deps     ServiceDeps
	limiters factory.RateLimiterFactory
}

func NewRegistrationServiceFactory(
	db *gorm.DB,
	logger *log.Logger,
	provider payments.Provider,
	transport mailer.Mailer,
	composer *mailer.Composer,
	limiters factory.RateLimiterFactory,
) RegistrationServiceFactory {
	return &DefaultRegistrationServiceFactory{
		deps: ServiceDeps{
			Logger:     logger,
			Repository: NewRegistrationRepository(db),
			Payments:   provider,
			Mailer:     transport,
			Composer:   composer,
		},
		limiters: limiters,
	}
}

func (f *DefaultRegistrationServiceFactory) CreateService() RegistrationService {
	return NewRegistrationService(f.deps)
}

func (f *DefaultRegistrationServiceFactory) CreateController() *router.RESTController {
	return NewRegistrationController(f.deps, f.limiters)
}
