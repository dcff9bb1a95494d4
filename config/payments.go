package config

import (
	"os"
	"strings"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

func NewPaymentsConfig() payments.Config {
	return payments.Config{
		Provider:        strings.ToLower(utils.GetEnvTrimmed("PAYMENT_PROVIDER")),
		StripeSecretKey: strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		Currency:        strings.ToLower(utils.GetEnvTrimmedOrDefault("PAYMENT_CURRENCY", "usd")),
	}
}

func NewPaymentProvider(logger *log.Logger, cfg payments.Config) (payments.Provider, error) {
	provider, err := payments.NewProvider(cfg)
	if err != nil {
		logger.Error("Failed to configure payment provider", "error", err)
		return nil, err
	}

	if provider.Name() == payments.ProviderStub {
		if GetAppEnv() == "production" || GetAppEnv() == "prod" {
			logger.Warn("Stub payment provider in production; payments are not being collected")
		} else {
			logger.Info("Using stub payment provider")
		}
	} else {
		logger.Info("Payment provider configured", "provider", provider.Name(), "currency", cfg.Currency)
	}

	return provider, nil
}
