package config

import (
	"context"
	"strings"
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	"github.com/mcsoccercamp/camp-api/internal/storage"
	"github.com/mcsoccercamp/camp-api/pkg/constants"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
	"gorm.io/gorm"
)

// ApplicationConfig holds every long-lived collaborator the entrypoints share.
type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error

	Integrations
	StartedAt time.Time
}

// Integrations are the outbound services a camp request can touch.
type Integrations struct {
	Mailer   mailer.Mailer
	Composer *mailer.Composer
	Payments payments.Provider
	// BlobStore is nil when waivers are stored in the database.
	BlobStore storage.BlobStore
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration

	AdminKey        string
	Currency        string
	SiteBaseURL     string
	GalleryDir      string
	GalleryManifest string
	GalleryCacheTTL time.Duration
}

// NewAppConfig reads the request-level settings. Invalid or non-positive
// numbers fall back to the defaults.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		RateLimitRequests: utils.GetEnvInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:   utils.GetEnvDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:    utils.GetEnvDuration("REQUEST_TIMEOUT", router.DefaultTimeoutDuration),

		AdminKey:        utils.GetEnvTrimmed("ADMIN_KEY"),
		Currency:        strings.ToLower(utils.GetEnvTrimmedOrDefault("PAYMENT_CURRENCY", "usd")),
		SiteBaseURL:     strings.TrimRight(utils.GetEnvTrimmed("SITE_BASE_URL"), "/"),
		GalleryDir:      utils.GetEnvTrimmed("GALLERY_DIR"),
		GalleryManifest: utils.GetEnvTrimmed("GALLERY_MANIFEST"),
		GalleryCacheTTL: utils.GetEnvDuration("GALLERY_CACHE_TTL", constants.DefaultGalleryCacheTTL),
	}
}

func (ac *AppConfig) routerConfig() *router.RouterConfig {
	return &router.RouterConfig{
		RateLimitRequests: ac.RateLimitRequests,
		RateLimitWindow:   ac.RateLimitWindow,
		RequestTimeout:    ac.RequestTimeout,
	}
}

// Cleanup releases resources in reverse order of construction.
func (ac *ApplicationConfig) Cleanup() {
	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}
	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}
	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Tracer provider shutdown failed", "error", err)
		}
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		if err := checkAutoMigrate(logger); err != nil {
			return nil, err
		}
	}

	tracingShutdown, err := SetupTracing(logger, NewTracingConfig())
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, NewDBConfig())
	if err != nil {
		return nil, err
	}
	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	if appConfig.AdminKey == "" {
		logger.Warn("ADMIN_KEY not set; admin endpoints will reject every request")
	}

	integrations, err := loadIntegrations(context.Background(), logger)
	if err != nil {
		return nil, err
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	logger.Info("Application configuration loaded",
		"mail_transport", integrations.Mailer.Transport(),
		"payments", integrations.Payments.Name(),
		"blob_store", integrations.BlobStore != nil,
		"cache", cache != nil,
	)

	return &ApplicationConfig{
		DB:              db,
		RouterService:   router.CreateRouterService(logger, cache, appConfig.routerConfig()),
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
		Integrations:    *integrations,
		StartedAt:       time.Now(),
	}, nil
}

func checkAutoMigrate(logger *log.Logger) error {
	appEnv := GetAppEnv()
	if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
		return err
	}
	if appEnv == "" {
		logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
	}
	return nil
}

func loadIntegrations(ctx context.Context, logger *log.Logger) (*Integrations, error) {
	mailCfg := NewMailConfig()
	transport, err := mailCfg.NewMailer(ctx, logger)
	if err != nil {
		return nil, err
	}
	composer, err := mailCfg.NewComposer(logger)
	if err != nil {
		return nil, err
	}

	provider, err := NewPaymentProvider(logger, NewPaymentsConfig())
	if err != nil {
		return nil, err
	}

	blobs, err := NewStorageConfig().NewBlobStore(ctx, logger)
	if err != nil {
		return nil, err
	}

	return &Integrations{
		Mailer:    transport,
		Composer:  composer,
		Payments:  provider,
		BlobStore: blobs,
	}, nil
}
