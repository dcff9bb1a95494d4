package monitoring

import (
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	deps      Dependencies
	logger    *log.Logger
	startTime time.Time
	limiters  factory.RateLimiterFactory
}

func NewMonitoringControllerFactory(deps Dependencies, logger *log.Logger, startTime time.Time, limiters factory.RateLimiterFactory) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		deps:      deps,
		logger:    logger,
		startTime: startTime,
		limiters:  limiters,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.deps, f.logger, f.startTime, f.limiters)
}
