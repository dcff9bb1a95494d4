package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Program string

const (
	ProgramYouth      Program = "youth"
	ProgramHighSchool Program = "highschool"
)

// Prices are in cents.
const (
	YouthProgramPrice      int64 = 19900
	HighSchoolProgramPrice int64 = 24900
)

func (p Program) Valid() bool {
	return p == ProgramYouth || p == ProgramHighSchool
}

func (p Program) PriceCents() int64 {
	switch p {
	case ProgramYouth:
		return YouthProgramPrice
	case ProgramHighSchool:
		return HighSchoolProgramPrice
	default:
		return 0
	}
}

func (p Program) DisplayName() string {
	switch p {
	case ProgramYouth:
		return "Youth Program (Ages 8-14)"
	case ProgramHighSchool:
		return "High School Program (Ages 14-18)"
	default:
		return string(p)
	}
}

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

const (
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusPending   = "pending"
	RegistrationStatusCancelled = "cancelled"
)

// Positions offered on the registration form.
var Positions = []string{"Forward", "Midfielder", "Defender", "Goalkeeper", "Not Sure Yet"}

// CanonicalPosition matches a submitted position case-insensitively. An empty
// position is allowed and stays empty.
func CanonicalPosition(position string) (string, bool) {
	position = strings.TrimSpace(position)
	if position == "" {
		return "", true
	}
	for _, p := range Positions {
		if strings.EqualFold(p, position) {
			return p, true
		}
	}
	return "", false
}

type Registration struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	PlayerFirstName string `gorm:"not null" json:"playerFirstName"`
	PlayerLastName  string `gorm:"not null" json:"playerLastName"`
	PlayerName      string `gorm:"not null" json:"playerName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Program         string `gorm:"not null;index" json:"program"`
	Position        string `json:"position"`
	FunFact         string `json:"funFact"`
	ShirtSize       string `gorm:"not null" json:"shirtSize"`

	ParentFirstName string `gorm:"not null" json:"parentFirstName"`
	ParentLastName  string `gorm:"not null" json:"parentLastName"`
	ParentName      string `gorm:"not null" json:"parentName"`
	Email           string `gorm:"not null;index" json:"email"`
	Phone           string `gorm:"not null" json:"phone"`

	EmergencyContact  string `gorm:"not null" json:"emergencyContact"`
	EmergencyPhone    string `gorm:"not null" json:"emergencyPhone"`
	MedicalConditions string `json:"medicalConditions"`

	AgreedToTerms   bool `gorm:"not null;default:false" json:"agreedToTerms"`
	HasSignedWaiver bool `gorm:"not null;default:false" json:"hasSignedWaiver"`

	PaymentStatus   string `gorm:"not null;default:pending" json:"paymentStatus"`
	PaymentIntentID string `gorm:"index" json:"paymentIntentId,omitempty"`
	Amount          int64  `gorm:"not null;default:0" json:"amount"`

	WaiverUploaded   bool       `gorm:"not null;default:false" json:"waiverUploaded"`
	WaiverUploadDate *time.Time `json:"waiverUploadDate,omitempty"`
	WaiverDocumentID *string    `gorm:"type:varchar(36)" json:"waiverDocumentId,omitempty"`

	Status    string    `gorm:"not null;default:pending;index" json:"status"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.RefreshDisplayNames()
	return nil
}

// RefreshDisplayNames derives the combined player and parent names.
func (r *Registration) RefreshDisplayNames() {
	r.PlayerName = JoinName(r.PlayerFirstName, r.PlayerLastName)
	r.ParentName = JoinName(r.ParentFirstName, r.ParentLastName)
}

func JoinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
