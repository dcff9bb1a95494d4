package registration

import (
	"context"
	"errors"

	"github.com/mcsoccercamp/camp-api/internal/models"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	// CreateRegistration persists a new registration and fills in its generated ID.
	CreateRegistration(ctx context.Context, registration *models.Registration) (*models.Registration, error)
	// PaymentIntentInUse reports whether a registration already references the payment intent.
	PaymentIntentInUse(ctx context.Context, paymentIntentID string) (bool, error)
}

// msgPaymentAlreadyUsed is the client message for a payment intent that already backs a registration.
const msgPaymentAlreadyUsed = "Payment has already been used for another registration"

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (rr *registrationRepository) CreateRegistration(ctx context.Context, registration *models.Registration) (*models.Registration, error) {
	if err := rr.db.WithContext(ctx).Create(registration).Error; err != nil {
		// The unique payment_intent_id index catches a reuse that raced past the lookup.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewInvalidRequestError(msgPaymentAlreadyUsed, err)
		}
		return nil, apperrors.NewDatabaseError("unable to save registration", err)
	}

	return registration, nil
}

func (rr *registrationRepository) PaymentIntentInUse(ctx context.Context, paymentIntentID string) (bool, error) {
	var count int64
	err := rr.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabaseError("unable to check payment intent", err)
	}

	return count > 0, nil
}
