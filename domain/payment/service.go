package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
)

type PaymentService interface {
	// CreateIntent opens a card payment intent for a program fee.
	CreateIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error)
}

type paymentService struct {
	logger   *log.Logger
	provider payments.Provider
	currency string
}

func NewPaymentService(logger *log.Logger, provider payments.Provider, currency string) PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &paymentService{logger: logger, provider: provider, currency: currency}
}

func (s *paymentService) CreateIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CreateIntent received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	program := models.Program(strings.TrimSpace(req.Program))
	if !program.Valid() {
		return nil, apperrors.NewInvalidRequestError("Invalid program", nil)
	}

	price := program.PriceCents()
	if req.Amount < price {
		logger.Warn("Payment amount below program price", "program", program, "amount", req.Amount, "price", price)
		return nil, apperrors.NewInvalidRequestError("Amount does not cover the program price", nil)
	}
	if req.Amount > price {
		logger.Info("Payment amount above program price", "program", program, "amount", req.Amount, "price", price)
	}

	intent, err := s.provider.CreateIntent(ctx, payments.CreateIntentRequest{
		Amount:       req.Amount,
		Currency:     s.currency,
		Program:      string(program),
		ReceiptEmail: strings.TrimSpace(req.Email),
	})
	if err != nil {
		if errors.Is(err, payments.ErrInvalidAmount) {
			return nil, apperrors.NewInvalidRequestError("Amount must be greater than zero", err)
		}
		logger.Error("Failed to create payment intent", "provider", s.provider.Name(), "error", err)
		return nil, apperrors.NewExternalServiceError("unable to create payment intent", err)
	}

	logger.Info("Payment intent created", "provider", s.provider.Name(), "payment_intent_id", intent.ID, "amount", intent.Amount)

	return &PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          intent.Amount,
		Program:         string(program),
	}, nil
}
