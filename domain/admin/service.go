package admin

import (
	"context"
	"strings"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/models"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
)

type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardResponse, error)
	GetRegistration(ctx context.Context, id string) (*RegistrationView, error)
	UpdateRegistration(ctx context.Context, id string, req *UpdateRegistrationRequest) (*UpdateRegistrationResponse, error)
	// DeleteRegistration removes the registration only. Its waiver documents stay stored.
	DeleteRegistration(ctx context.Context, id string) (*DeleteRegistrationResponse, error)
	UpdateContactStatus(ctx context.Context, id string, req *UpdateContactStatusRequest) (*UpdateContactStatusResponse, error)
}

type adminService struct {
	logger     *log.Logger
	repository AdminRepository
	now        func() time.Time
}

func NewAdminService(logger *log.Logger, repository AdminRepository) AdminService {
	return &adminService{
		logger:     logger,
		repository: repository,
		now:        time.Now,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	registrations, err := s.repository.ListRegistrations(ctx)
	if err != nil {
		logger.Error("Failed to list registrations", "error", err)
		return nil, err
	}

	contacts, err := s.repository.ListContacts(ctx)
	if err != nil {
		logger.Error("Failed to list contact submissions", "error", err)
		return nil, err
	}

	response := &DashboardResponse{
		RegistrationCount: len(registrations),
		ContactCount:      len(contacts),
		Registrations:     make([]RegistrationView, 0, len(registrations)),
		Contacts:          make([]ContactView, 0, len(contacts)),
	}
	for i := range registrations {
		response.Registrations = append(response.Registrations, ToRegistrationView(&registrations[i]))
	}
	for i := range contacts {
		response.Contacts = append(response.Contacts, ToContactView(&contacts[i]))
	}

	logger.Info("Admin dashboard loaded", "registrations", response.RegistrationCount, "contacts", response.ContactCount)

	return response, nil
}

func (s *adminService) GetRegistration(ctx context.Context, id string) (*RegistrationView, error) {
	registration, err := s.repository.FindRegistrationByID(ctx, id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to fetch registration", "id", id, "error", err)
		}
		return nil, err
	}

	view := ToRegistrationView(registration)
	return &view, nil
}

func (s *adminService) UpdateRegistration(ctx context.Context, id string, req *UpdateRegistrationRequest) (*UpdateRegistrationResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	current, err := s.repository.FindRegistrationByID(ctx, id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Error("Failed to fetch registration for update", "id", id, "error", err)
		}
		return nil, err
	}

	updates := registrationUpdates(current, req)
	if len(updates) == 0 {
		return nil, apperrors.NewInvalidRequestError("No updatable fields provided", nil)
	}
	updates["updated_at"] = s.now().UTC()

	modified, err := s.repository.UpdateRegistration(ctx, id, updates)
	if err != nil {
		logger.Error("Failed to update registration", "id", id, "error", err)
		return nil, err
	}

	logger.Info("Registration updated", "id", id, "fields", len(updates)-1, "modified", modified)

	return &UpdateRegistrationResponse{ModifiedCount: modified}, nil
}

func (s *adminService) DeleteRegistration(ctx context.Context, id string) (*DeleteRegistrationResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	deleted, err := s.repository.DeleteRegistration(ctx, id)
	if err != nil {
		logger.Error("Failed to delete registration", "id", id, "error", err)
		return nil, err
	}
	if deleted == 0 {
		return nil, apperrors.NewNotFoundError("Registration not found", nil)
	}

	logger.Info("Registration deleted", "id", id)

	return &DeleteRegistrationResponse{DeletedCount: deleted}, nil
}

func (s *adminService) UpdateContactStatus(ctx context.Context, id string, req *UpdateContactStatusRequest) (*UpdateContactStatusResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != models.ContactStatusNew && status != models.ContactStatusRead {
		return nil, apperrors.NewInvalidRequestError("Invalid contact status", nil)
	}

	modified, err := s.repository.UpdateContactStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		logger.Error("Failed to update contact status", "id", id, "error", err)
		return nil, err
	}
	if modified == 0 {
		return nil, apperrors.NewNotFoundError("Contact submission not found", nil)
	}

	logger.Info("Contact status updated", "id", id, "status", status)

	return &UpdateContactStatusResponse{ModifiedCount: modified}, nil
}

// registrationUpdates maps the provided fields onto column updates. Name edits
// also rewrite the combined player and parent names.
func registrationUpdates(current *models.Registration, req *UpdateRegistrationRequest) map[string]interface{} {
	updates := map[string]interface{}{}

	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	setBool := func(column string, value *bool) {
		if value != nil {
			updates[column] = *value
		}
	}

	setString("player_first_name", req.PlayerFirstName)
	setString("player_last_name", req.PlayerLastName)
	setString("date_of_birth", req.DateOfBirth)
	setString("program", req.Program)
	setString("position", req.Position)
	setString("fun_fact", req.FunFact)
	setString("shirt_size", req.ShirtSize)
	setString("parent_first_name", req.ParentFirstName)
	setString("parent_last_name", req.ParentLastName)
	setString("phone", req.Phone)
	setString("emergency_contact", req.EmergencyContact)
	setString("emergency_phone", req.EmergencyPhone)
	setString("medical_conditions", req.MedicalConditions)
	setString("payment_status", req.PaymentStatus)
	setString("status", req.Status)
	setBool("agreed_to_terms", req.AgreedToTerms)
	setBool("has_signed_waiver", req.HasSignedWaiver)
	setBool("waiver_uploaded", req.WaiverUploaded)

	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}

	if req.PlayerFirstName != nil || req.PlayerLastName != nil {
		updates["player_name"] = models.JoinName(
			pick(req.PlayerFirstName, current.PlayerFirstName),
			pick(req.PlayerLastName, current.PlayerLastName),
		)
	}
	if req.ParentFirstName != nil || req.ParentLastName != nil {
		updates["parent_name"] = models.JoinName(
			pick(req.ParentFirstName, current.ParentFirstName),
			pick(req.ParentLastName, current.ParentLastName),
		)
	}

	return updates
}

func pick(value *string, fallback string) string {
	if value != nil {
		return *value
	}
	return fallback
}
