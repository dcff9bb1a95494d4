package admin

import (
	"strings"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/models"
)

// RegistrationView is a registration as listed on the admin dashboard.
type RegistrationView struct {
	ID                string     `json:"id"`
	Type              string     `json:"type"`
	PlayerName        string     `json:"playerName"`
	ParentName        string     `json:"parentName"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Program           string     `json:"program"`
	Position          string     `json:"position"`
	ShirtSize         string     `json:"shirtSize"`
	EmergencyContact  string     `json:"emergencyContact"`
	EmergencyPhone    string     `json:"emergencyPhone"`
	MedicalConditions string     `json:"medicalConditions"`
	DateOfBirth       string     `json:"dateOfBirth"`
	FunFact           string     `json:"funFact"`
	PaymentStatus     string     `json:"paymentStatus"`
	Amount            int64      `json:"amount"`
	WaiverUploaded    bool       `json:"waiverUploaded"`
	WaiverUploadDate  *time.Time `json:"waiverUploadDate,omitempty"`
	WaiverDocumentID  *string    `json:"waiverDocumentId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	Status            string     `json:"status"`
}

type ContactView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
}

type DashboardResponse struct {
	RegistrationCount int                `json:"registrationCount"`
	ContactCount      int                `json:"contactCount"`
	Registrations     []RegistrationView `json:"registrations"`
	Contacts          []ContactView      `json:"contacts"`
}

// UpdateRegistrationRequest holds the admin-editable fields. Absent fields are left unchanged;
// id and createdAt are not accepted.
type UpdateRegistrationRequest struct {
	PlayerFirstName   *string `json:"playerFirstName" binding:"omitempty,notblank"`
	PlayerLastName    *string `json:"playerLastName" binding:"omitempty,notblank"`
	DateOfBirth       *string `json:"dateOfBirth"`
	Program           *string `json:"program" binding:"omitempty,oneof=youth highschool"`
	Position          *string `json:"position"`
	FunFact           *string `json:"funFact"`
	ShirtSize         *string `json:"shirtSize" binding:"omitempty,notblank"`
	ParentFirstName   *string `json:"parentFirstName" binding:"omitempty,notblank"`
	ParentLastName    *string `json:"parentLastName" binding:"omitempty,notblank"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Phone             *string `json:"phone" binding:"omitempty,notblank"`
	EmergencyContact  *string `json:"emergencyContact" binding:"omitempty,notblank"`
	EmergencyPhone    *string `json:"emergencyPhone" binding:"omitempty,notblank"`
	MedicalConditions *string `json:"medicalConditions"`
	AgreedToTerms     *bool   `json:"agreedToTerms"`
	HasSignedWaiver   *bool   `json:"hasSignedWaiver"`
	PaymentStatus     *string `json:"paymentStatus" binding:"omitempty,oneof=pending paid"`
	Amount            *int64  `json:"amount" binding:"omitempty,gte=0"`
	WaiverUploaded    *bool   `json:"waiverUploaded"`
	Status            *string `json:"status" binding:"omitempty,oneof=confirmed pending cancelled"`
}

type UpdateRegistrationResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteRegistrationResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type UpdateContactStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new read"`
}

type UpdateContactStatusResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

func ToRegistrationView(r *models.Registration) RegistrationView {
	playerName := r.PlayerName
	if playerName == "" {
		playerName = models.JoinName(r.PlayerFirstName, r.PlayerLastName)
	}
	parentName := r.ParentName
	if parentName == "" {
		parentName = models.JoinName(r.ParentFirstName, r.ParentLastName)
	}

	return RegistrationView{
		ID:                r.ID,
		Type:              "registration",
		PlayerName:        playerName,
		ParentName:        parentName,
		Email:             r.Email,
		Phone:             r.Phone,
		Program:           r.Program,
		Position:          r.Position,
		ShirtSize:         r.ShirtSize,
		EmergencyContact:  r.EmergencyContact,
		EmergencyPhone:    r.EmergencyPhone,
		MedicalConditions: r.MedicalConditions,
		DateOfBirth:       r.DateOfBirth,
		FunFact:           r.FunFact,
		PaymentStatus:     orDefault(r.PaymentStatus, models.PaymentStatusPaid),
		Amount:            r.Amount,
		WaiverUploaded:    r.WaiverUploaded,
		WaiverUploadDate:  r.WaiverUploadDate,
		WaiverDocumentID:  r.WaiverDocumentID,
		CreatedAt:         r.CreatedAt,
		Status:            orDefault(r.Status, models.RegistrationStatusConfirmed),
	}
}

func ToContactView(c *models.ContactSubmission) ContactView {
	return ContactView{
		ID:        c.ID,
		Type:      "contact",
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		Status:    orDefault(c.Status, models.ContactStatusNew),
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
