package domain

import (
	"github.com/mcsoccercamp/camp-api/config"
	"github.com/mcsoccercamp/camp-api/domain/admin"
	"github.com/mcsoccercamp/camp-api/domain/contact"
	"github.com/mcsoccercamp/camp-api/domain/gallery"
	"github.com/mcsoccercamp/camp-api/domain/monitoring"
	"github.com/mcsoccercamp/camp-api/domain/payment"
	"github.com/mcsoccercamp/camp-api/domain/registration"
	"github.com/mcsoccercamp/camp-api/domain/waiver"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	applyDefaults(appConfig)

	rs := appConfig.RouterService
	settings := appConfig.Config
	limiters := factory.NewDefaultRateLimiterFactory(appConfig.Cache, appConfig.Logger)

	rs.MountController(monitoring.NewMonitoringControllerFactory(monitoring.Dependencies{
		DB:       appConfig.DB,
		Cache:    appConfig.Cache,
		Mailer:   appConfig.Mailer,
		Payments: appConfig.Payments,
		Blobs:    appConfig.BlobStore,
	}, appConfig.Logger, appConfig.StartedAt, limiters).CreateController())

	rs.MountController(registration.NewRegistrationServiceFactory(
		appConfig.DB, appConfig.Logger, appConfig.Payments, appConfig.Mailer, appConfig.Composer, limiters,
	).CreateController())

	rs.MountController(contact.NewContactServiceFactory(
		appConfig.DB, appConfig.Logger, appConfig.Mailer, appConfig.Composer, limiters,
	).CreateController())

	rs.MountController(payment.NewPaymentController(appConfig.Logger, appConfig.Payments, settings.Currency, limiters))

	rs.MountController(waiver.NewWaiverServiceFactory(
		appConfig.DB, appConfig.Logger, appConfig.BlobStore, settings.AdminKey, limiters,
	).CreateController())

	rs.MountController(admin.NewAdminServiceFactory(appConfig.DB, appConfig.Logger, settings.AdminKey, limiters).CreateController())

	rs.MountController(gallery.NewGalleryServiceFactory(appConfig.Logger, appConfig.Cache, gallery.Options{
		Dir:      settings.GalleryDir,
		Manifest: settings.GalleryManifest,
		BaseURL:  settings.SiteBaseURL,
		CacheTTL: settings.GalleryCacheTTL,
	}, limiters).CreateController())
}

// applyDefaults fills collaborators a partial configuration leaves out, so
// every route can be mounted.
func applyDefaults(appConfig *config.ApplicationConfig) {
	if appConfig.Config == nil {
		appConfig.Config = config.NewAppConfig()
	}
	if appConfig.Mailer == nil {
		appConfig.Mailer = mailer.NewLogMailer(appConfig.Logger)
	}
	if appConfig.Composer == nil {
		appConfig.Composer = mailer.NewComposer(mailer.ComposerConfig{SiteBaseURL: appConfig.Config.SiteBaseURL})
	}
	if appConfig.Payments == nil {
		appConfig.Payments = payments.NewStubProvider()
	}
}
