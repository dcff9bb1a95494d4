package registration

import (
	"context"
	"errors"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type RegistrationService interface {
	// Register verifies any attached payment, saves the registration and emails the parent.
	Register(ctx context.Context, req *CreateRegistrationRequest) (*RegistrationResponse, error)
}

type registrationService struct {
	logger     *log.Logger
	repository RegistrationRepository
	payments   payments.Provider
	mailer     mailer.Mailer
	composer   *mailer.Composer
	registered *prometheus.CounterVec
}

type ServiceDeps struct {
	Logger     *log.Logger
	Repository RegistrationRepository
	Payments   payments.Provider
	Mailer     mailer.Mailer
	Composer   *mailer.Composer
	// Registered counts saved registrations by program and status; nil disables it.
	Registered *prometheus.CounterVec
}

func NewRegistrationService(deps ServiceDeps) RegistrationService {
	return &registrationService{
		logger:     deps.Logger,
		repository: deps.Repository,
		payments:   deps.Payments,
		mailer:     deps.Mailer,
		composer:   deps.Composer,
		registered: deps.Registered,
	}
}

func (s *registrationService) Register(ctx context.Context, req *CreateRegistrationRequest) (*RegistrationResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Register received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	program := models.Program(req.Program)
	if !program.Valid() {
		logger.Warn("Register received unknown program", "program", req.Program)
		return nil, apperrors.NewInvalidRequestError("Invalid program", nil)
	}

	position, ok := models.CanonicalPosition(req.Position)
	if !ok {
		logger.Warn("Register received unknown position", "position", req.Position)
		return nil, apperrors.NewInvalidRequestError("Invalid position", nil)
	}

	registration := ToRegistrationModel(req)
	registration.Position = position

	if registration.PaymentIntentID != "" {
		if err := s.applyVerifiedPayment(ctx, logger, registration); err != nil {
			return nil, err
		}
	} else if req.PaymentStatus == models.PaymentStatusPaid {
		logger.Warn("Registration claims payment without a payment intent; recording as pending")
	}

	if registration.Amount <= 0 {
		registration.Amount = program.PriceCents()
	}

	saved, err := s.repository.CreateRegistration(ctx, registration)
	if err != nil {
		logger.Error("Failed to save registration", "error", err)
		return nil, err
	}

	logger.Info("Registration saved",
		"registration_id", saved.ID,
		"program", saved.Program,
		"payment_status", saved.PaymentStatus,
		"status", saved.Status,
	)

	if s.registered != nil {
		s.registered.WithLabelValues(saved.Program, saved.Status).Inc()
	}

	if err := s.sendConfirmation(ctx, saved); err != nil {
		// The record stays saved; the caller learns the email did not go out.
		logger.Error("Failed to send confirmation email", "registration_id", saved.ID, "transport", s.mailer.Transport(), "error", err)
		return nil, apperrors.NewExternalServiceError("failed to send confirmation email", err)
	}

	logger.Info("Confirmation email sent", "registration_id", saved.ID, "transport", s.mailer.Transport())

	return &RegistrationResponse{
		RegistrationID: saved.ID,
		Registration:   saved,
	}, nil
}

// applyVerifiedPayment overrides client-supplied payment fields with what the processor reports.
// The intent must have succeeded, be for the registration's program, cover the program price
// and not already back another registration.
func (s *registrationService) applyVerifiedPayment(ctx context.Context, logger *log.Logger, registration *models.Registration) error {
	intent, err := s.payments.GetIntent(ctx, registration.PaymentIntentID)
	if err != nil {
		if errors.Is(err, payments.ErrIntentNotFound) {
			logger.Warn("Payment intent not found", "payment_intent_id", registration.PaymentIntentID)
			return apperrors.NewInvalidRequestError("Payment intent not found", err)
		}
		logger.Error("Failed to verify payment intent", "payment_intent_id", registration.PaymentIntentID, "error", err)
		return apperrors.NewExternalServiceError("unable to verify payment", err)
	}

	if !intent.Succeeded() {
		logger.Warn("Payment intent not completed", "payment_intent_id", intent.ID, "intent_status", intent.Status)
		return apperrors.NewInvalidRequestError("Payment has not been completed", nil)
	}

	program := models.Program(registration.Program)
	if intent.Program != registration.Program {
		logger.Warn("Payment intent is for another program",
			"payment_intent_id", intent.ID,
			"intent_program", intent.Program,
			"program", registration.Program,
		)
		return apperrors.NewInvalidRequestError("Payment does not match the selected program", nil)
	}

	if price := program.PriceCents(); intent.Amount < price {
		logger.Warn("Payment intent below program price", "payment_intent_id", intent.ID, "amount", intent.Amount, "price", price)
		return apperrors.NewInvalidRequestError("Payment amount does not cover the program price", nil)
	}

	used, err := s.repository.PaymentIntentInUse(ctx, intent.ID)
	if err != nil {
		logger.Error("Failed to check payment intent reuse", "payment_intent_id", intent.ID, "error", err)
		return err
	}
	if used {
		logger.Warn("Payment intent already used", "payment_intent_id", intent.ID)
		return apperrors.NewInvalidRequestError(msgPaymentAlreadyUsed, nil)
	}

	registration.PaymentStatus = models.PaymentStatusPaid
	registration.Amount = intent.Amount
	registration.Status = models.RegistrationStatusConfirmed
	return nil
}

func (s *registrationService) sendConfirmation(ctx context.Context, registration *models.Registration) error {
	msg, err := s.composer.RegistrationConfirmation(mailer.Confirmation{
		To:             registration.Email,
		RegistrationID: registration.ID,
		PlayerName:     registration.PlayerName,
		ParentName:     registration.ParentName,
		Program:        registration.Program,
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, msg)
}
