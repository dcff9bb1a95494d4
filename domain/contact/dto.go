package contact

import (
	"strings"

	"github.com/mcsoccercamp/camp-api/internal/models"
)

type CreateContactRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=200"`
	Email   string `json:"email" binding:"required,notblank,email,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=40"`
	Subject string `json:"subject" binding:"required,notblank,max=200"`
	Message string `json:"message" binding:"required,notblank,max=5000"`
}

type ContactResponse struct {
	SubmissionID string `json:"submissionId"`
}

func ToContactSubmissionModel(req *CreateContactRequest) *models.ContactSubmission {
	if req == nil {
		return nil
	}
	return &models.ContactSubmission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  models.ContactStatusNew,
	}
}
