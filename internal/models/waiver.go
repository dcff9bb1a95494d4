package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WaiverStorageDatabase = "database"
	WaiverStorageS3       = "s3"
)

// Waiver holds an uploaded signed waiver. RegistrationID is an opaque
// reference: no foreign key, and deleting the registration leaves the waiver.
type Waiver struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RegistrationID string    `gorm:"type:varchar(36);not null;index" json:"registrationId"`
	PlayerName     string    `gorm:"not null" json:"playerName"`
	Filename       string    `gorm:"not null" json:"filename"`
	ContentType    string    `gorm:"not null" json:"contentType"`
	Size           int64     `gorm:"not null" json:"size"`
	UploadDate     time.Time `gorm:"not null;index" json:"uploadDate"`

	// Storage is "database" (FileData holds base64) or "s3" (StorageKey holds the object key).
	Storage    string `gorm:"not null;default:database" json:"storage"`
	FileData   string `gorm:"type:text" json:"-"`
	StorageKey string `json:"-"`
}

func (w *Waiver) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
