package contact

import (
	"context"

	"github.com/mcsoccercamp/camp-api/internal/models"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"gorm.io/gorm"
)

type ContactRepository interface {
	// CreateSubmission persists a contact form submission.
	CreateSubmission(ctx context.Context, submission *models.ContactSubmission) (*models.ContactSubmission, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (cr *contactRepository) CreateSubmission(ctx context.Context, submission *models.ContactSubmission) (*models.ContactSubmission, error) {
	if err := cr.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to save contact submission", err)
	}

	return submission, nil
}
