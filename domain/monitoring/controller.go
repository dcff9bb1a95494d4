package monitoring

import (
	"context"
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	"github.com/mcsoccercamp/camp-api/internal/storage"
	"github.com/mcsoccercamp/camp-api/pkg/circuitbreaker"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"gorm.io/gorm"
)

const (
	monitoringRequestsPerMinute = 10 // More restrictive than default 100
	healthCheckTimeout          = 5 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Database       int    `json:"database"`       // 1 = healthy, 0 = unhealthy
	Cache          int    `json:"cache"`          // 1 = healthy, 0 = unhealthy/not configured
	Mail           int    `json:"mail"`           // 1 = real transport configured, 0 = log only
	MailTransport  string `json:"mailTransport"`  // smtp, ses or log
	MailCircuit    string `json:"mailCircuit,omitempty"`
	Storage        int    `json:"storage"`        // 1 = waiver storage reachable
	StorageBackend string `json:"storageBackend"` // database or s3
	Payments       string `json:"payments"`       // stripe or stub
	Uptime         int    `json:"uptime"`         // uptime in seconds
}

// Dependencies are the collaborators reported on by the health check. Nil
// Cache and Blobs mean the feature is not configured.
type Dependencies struct {
	DB       *gorm.DB
	Cache    Cache
	Mailer   mailer.Mailer
	Payments payments.Provider
	Blobs    storage.BlobStore
}

type MonitoringController struct {
	deps      Dependencies
	logger    *log.Logger
	startTime time.Time
}

func NewMonitoringController(deps Dependencies, logger *log.Logger, startTime time.Time, limiters factory.RateLimiterFactory) *router.RESTController {
	if startTime.IsZero() {
		startTime = time.Now()
	}

	ctrl := &MonitoringController{
		deps:      deps,
		logger:    logger,
		startTime: startTime,
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {

			monitoringRateLimiter := limiters.CreateRateLimiter(monitoringRequestsPerMinute, time.Minute)

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.monitor(c)
			})

			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	healthStatus := ctrl.performHealthChecks(ctx, logger)

	return router.OKResult(healthStatus, "camp-api health check completed")
}

func (ctrl *MonitoringController) monitor(
	c *router.RequestContext,
) *router.ServiceResult {
	return router.OKResult("Camp API is operational.", "Monitoring successful")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkDatabaseConnectivity(ctx, ctrl, &status, logger)

	checkCacheConnectivity(ctx, ctrl, &status, logger)

	checkMailTransport(ctrl, &status)

	checkStorage(ctx, ctrl, &status, logger)

	status.Payments = payments.ProviderStub
	if ctrl.deps.Payments != nil {
		status.Payments = ctrl.deps.Payments.Name()
	}

	return status
}

func checkCacheConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.deps.Cache != nil {
		if ctrl.deps.Cache.Ping(ctx) == nil {
			status.Cache = 1
			logger.Info("Cache health check passed")
		} else {
			status.Cache = 0
			logger.Error("Cache health check failed")
		}
	} else {
		status.Cache = 0 // Cache not configured
		logger.Info("Cache not configured, cache health check skipped")
	}
}

func checkDatabaseConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.checkDatabase(ctx) {
		status.Database = 1
		logger.Info("Database health check passed")
	} else {
		status.Database = 0
		logger.Error("Database health check failed")
	}
}

func checkMailTransport(ctrl *MonitoringController, status *HealthStatus) {
	status.MailTransport = "none"
	if ctrl.deps.Mailer == nil {
		return
	}

	status.MailTransport = ctrl.deps.Mailer.Transport()
	if status.MailTransport != "log" {
		status.Mail = 1
	}

	if guarded, ok := ctrl.deps.Mailer.(*mailer.GuardedMailer); ok {
		state := guarded.Breaker().Snapshot().State
		status.MailCircuit = state.String()
		if state == circuitbreaker.Open {
			status.Mail = 0
		}
	}
}

// checkStorage reports database-backed waiver storage with the database result.
func checkStorage(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.deps.Blobs == nil {
		status.StorageBackend = models.WaiverStorageDatabase
		status.Storage = status.Database
		return
	}

	status.StorageBackend = models.WaiverStorageS3
	if err := ctrl.deps.Blobs.Ping(ctx); err != nil {
		status.Storage = 0
		logger.Error("Waiver storage health check failed", "error", err)
		return
	}

	status.Storage = 1
	logger.Info("Waiver storage health check passed")
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.deps.DB == nil {
		return false
	}

	sqlDB, err := ctrl.deps.DB.DB()
	if err != nil {
		return false
	}

	// Ping the database
	return sqlDB.PingContext(ctx) == nil
}
