package contact

import (
	"context"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
)

type ContactService interface {
	// Submit saves the message and notifies the camp inbox.
	Submit(ctx context.Context, req *CreateContactRequest) (*ContactResponse, error)
}

type contactService struct {
	logger     *log.Logger
	repository ContactRepository
	mailer     mailer.Mailer
	composer   *mailer.Composer
}

func NewContactService(logger *log.Logger, repository ContactRepository, transport mailer.Mailer, composer *mailer.Composer) ContactService {
	return &contactService{
		logger:     logger,
		repository: repository,
		mailer:     transport,
		composer:   composer,
	}
}

func (s *contactService) Submit(ctx context.Context, req *CreateContactRequest) (*ContactResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Submit received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	submission, err := s.repository.CreateSubmission(ctx, ToContactSubmissionModel(req))
	if err != nil {
		logger.Error("Failed to save contact submission", "error", err)
		return nil, err
	}

	logger.Info("Contact submission saved", "submission_id", submission.ID)

	msg, err := s.composer.ContactNotification(mailer.ContactNotification{
		Name:        submission.Name,
		Email:       submission.Email,
		Phone:       submission.Phone,
		Subject:     submission.Subject,
		Message:     submission.Message,
		SubmittedAt: submission.CreatedAt,
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.Error("Failed to send contact notification", "submission_id", submission.ID, "error", err)
		return nil, apperrors.NewExternalServiceError("failed to send contact notification", err)
	}

	return &ContactResponse{SubmissionID: submission.ID}, nil
}
