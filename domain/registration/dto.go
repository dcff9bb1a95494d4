package registration

import (
	"strings"

	"github.com/mcsoccercamp/camp-api/internal/models"
)

type CreateRegistrationRequest struct {
	PlayerFirstName string `json:"playerFirstName" binding:"required,notblank,max=100"`
	PlayerLastName  string `json:"playerLastName" binding:"required,notblank,max=100"`
	DateOfBirth     string `json:"dateOfBirth" binding:"omitempty,max=32"`
	Program         string `json:"program" binding:"required,notblank,oneof=youth highschool"`
	Position        string `json:"position" binding:"omitempty,max=50"`
	FunFact         string `json:"funFact" binding:"omitempty,max=1000"`
	ShirtSize       string `json:"shirtSize" binding:"required,notblank,max=20"`

	ParentFirstName string `json:"parentFirstName" binding:"required,notblank,max=100"`
	ParentLastName  string `json:"parentLastName" binding:"required,notblank,max=100"`
	Email           string `json:"email" binding:"required,notblank,email,max=255"`
	Phone           string `json:"phone" binding:"required,notblank,max=40"`

	EmergencyContact  string `json:"emergencyContact" binding:"required,notblank,max=200"`
	EmergencyPhone    string `json:"emergencyPhone" binding:"required,notblank,max=40"`
	MedicalConditions string `json:"medicalConditions" binding:"omitempty,max=2000"`

	AgreedToTerms   bool `json:"agreedToTerms"`
	HasSignedWaiver bool `json:"hasSignedWaiver"`

	PaymentStatus   string `json:"paymentStatus" binding:"omitempty,oneof=pending paid"`
	PaymentIntentID string `json:"paymentIntentId" binding:"omitempty,max=255"`
	Amount          int64  `json:"amount" binding:"omitempty,gte=0"`
}

type RegistrationResponse struct {
	RegistrationID string               `json:"registrationId"`
	Registration   *models.Registration `json:"registration"`
}

func ToRegistrationModel(req *CreateRegistrationRequest) *models.Registration {
	if req == nil {
		return nil
	}
	reg := &models.Registration{
		PlayerFirstName:   strings.TrimSpace(req.PlayerFirstName),
		PlayerLastName:    strings.TrimSpace(req.PlayerLastName),
		DateOfBirth:       strings.TrimSpace(req.DateOfBirth),
		Program:           strings.TrimSpace(req.Program),
		Position:          strings.TrimSpace(req.Position),
		FunFact:           strings.TrimSpace(req.FunFact),
		ShirtSize:         strings.TrimSpace(req.ShirtSize),
		ParentFirstName:   strings.TrimSpace(req.ParentFirstName),
		ParentLastName:    strings.TrimSpace(req.ParentLastName),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:             strings.TrimSpace(req.Phone),
		EmergencyContact:  strings.TrimSpace(req.EmergencyContact),
		EmergencyPhone:    strings.TrimSpace(req.EmergencyPhone),
		MedicalConditions: strings.TrimSpace(req.MedicalConditions),
		AgreedToTerms:     req.AgreedToTerms,
		HasSignedWaiver:   req.HasSignedWaiver,
		PaymentIntentID:   strings.TrimSpace(req.PaymentIntentID),
		Amount:            req.Amount,
		PaymentStatus:     models.PaymentStatusPending,
		Status:            models.RegistrationStatusPending,
	}
	reg.RefreshDisplayNames()
	return reg
}
