package waiver

import (
	"context"
	"errors"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/models"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"gorm.io/gorm"
)

type WaiverRepository interface {
	// CreateWaiver persists an uploaded waiver document.
	CreateWaiver(ctx context.Context, waiver *models.Waiver) (*models.Waiver, error)
	// FindLatestWaiver returns the most recently uploaded waiver for a registration.
	FindLatestWaiver(ctx context.Context, registrationID string) (*models.Waiver, error)
	// LinkRegistration flags the registration as having a waiver. It reports false
	// when no registration matches the ID.
	LinkRegistration(ctx context.Context, registrationID, waiverID string, uploadedAt time.Time) (bool, error)
}

type waiverRepository struct {
	db *gorm.DB
}

func NewWaiverRepository(db *gorm.DB) WaiverRepository {
	return &waiverRepository{db: db}
}

func (wr *waiverRepository) CreateWaiver(ctx context.Context, waiver *models.Waiver) (*models.Waiver, error) {
	if err := wr.db.WithContext(ctx).Create(waiver).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to save waiver", err)
	}

	return waiver, nil
}

func (wr *waiverRepository) FindLatestWaiver(ctx context.Context, registrationID string) (*models.Waiver, error) {
	var waiver models.Waiver

	err := wr.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("upload_date DESC").
		First(&waiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Waiver not found", err)
		}
		return nil, apperrors.NewDatabaseError("unable to fetch waiver", err)
	}

	return &waiver, nil
}

func (wr *waiverRepository) LinkRegistration(ctx context.Context, registrationID, waiverID string, uploadedAt time.Time) (bool, error) {
	result := wr.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", registrationID).
		Updates(map[string]interface{}{
			"waiver_uploaded":    true,
			"waiver_upload_date": uploadedAt,
			"waiver_document_id": waiverID,
			"updated_at":         uploadedAt,
		})

	if result.Error != nil {
		return false, apperrors.NewDatabaseError("unable to link waiver to registration", result.Error)
	}

	return result.RowsAffected > 0, nil
}
