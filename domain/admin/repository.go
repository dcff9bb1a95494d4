package admin

import (
	"context"
	"errors"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/models"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"gorm.io/gorm"
)

type AdminRepository interface {
	// ListRegistrations returns every registration, newest first.
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	// ListContacts returns every contact submission, newest first.
	ListContacts(ctx context.Context) ([]models.ContactSubmission, error)
	FindRegistrationByID(ctx context.Context, id string) (*models.Registration, error)
	// UpdateRegistration applies column updates and reports the rows modified.
	UpdateRegistration(ctx context.Context, id string, updates map[string]interface{}) (int64, error)
	DeleteRegistration(ctx context.Context, id string) (int64, error)
	UpdateContactStatus(ctx context.Context, id, status string, at time.Time) (int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (ar *adminRepository) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	var registrations []models.Registration

	if err := ar.db.WithContext(ctx).Order("created_at DESC").Find(&registrations).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to list registrations", err)
	}

	return registrations, nil
}

func (ar *adminRepository) ListContacts(ctx context.Context) ([]models.ContactSubmission, error) {
	var contacts []models.ContactSubmission

	if err := ar.db.WithContext(ctx).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to list contact submissions", err)
	}

	return contacts, nil
}

func (ar *adminRepository) FindRegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	var registration models.Registration

	if err := ar.db.WithContext(ctx).Where("id = ?", id).First(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Registration not found", err)
		}
		return nil, apperrors.NewDatabaseError("unable to fetch registration", err)
	}

	return &registration, nil
}

func (ar *adminRepository) UpdateRegistration(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := ar.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return 0, apperrors.NewDatabaseError("unable to update registration", result.Error)
	}

	return result.RowsAffected, nil
}

func (ar *adminRepository) DeleteRegistration(ctx context.Context, id string) (int64, error) {
	result := ar.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Registration{})

	if result.Error != nil {
		return 0, apperrors.NewDatabaseError("unable to delete registration", result.Error)
	}

	return result.RowsAffected, nil
}

func (ar *adminRepository) UpdateContactStatus(ctx context.Context, id, status string, at time.Time) (int64, error) {
	result := ar.db.WithContext(ctx).
		Model(&models.ContactSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})

	if result.Error != nil {
		return 0, apperrors.NewDatabaseError("unable to update contact submission", result.Error)
	}

	return result.RowsAffected, nil
}
