package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderStripe = "stripe"
	ProviderStub   = "stub"
)

// StatusSucceeded is the only intent status that counts as paid.
const StatusSucceeded = "succeeded"

var (
	ErrIntentNotFound = errors.New("payment intent not found")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
)

type CreateIntentRequest struct {
	Amount       int64
	Currency     string
	Program      string
	ReceiptEmail string
}

type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
	Program      string
}

func (i *Intent) Succeeded() bool {
	return i != nil && i.Status == StatusSucceeded
}

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=payments

// Provider creates and inspects card payment intents with a processor.
type Provider interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	Name() string
}

type Config struct {
	// Provider is "stripe" or "stub"; empty selects stripe when a secret key is present.
	Provider        string
	StripeSecretKey string
	Currency        string
}

func NewProvider(cfg Config) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = ProviderStub
		if cfg.StripeSecretKey != "" {
			name = ProviderStripe
		}
	}

	switch name {
	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("payments: STRIPE_SECRET_KEY is required for the stripe provider")
		}
		return NewStripeProvider(cfg.StripeSecretKey), nil
	case ProviderStub:
		return NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("payments: unknown provider %q", cfg.Provider)
	}
}
