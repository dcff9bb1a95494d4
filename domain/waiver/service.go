package waiver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/storage"
	"github.com/mcsoccercamp/camp-api/pkg/constants"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	pdfContentType        = "application/pdf"
	defaultWaiverFilename = "waiver.pdf"
)

type WaiverService interface {
	// Upload stores a signed waiver PDF and links it to its registration.
	Upload(ctx context.Context, in *UploadInput) (*UploadResponse, error)
	// View loads the most recent waiver uploaded for a registration.
	View(ctx context.Context, registrationID string) (*Document, error)
}

type waiverService struct {
	logger     *log.Logger
	repository WaiverRepository
	blobs      storage.BlobStore
	uploads    *prometheus.CounterVec
	now        func() time.Time
}

type ServiceDeps struct {
	Logger     *log.Logger
	Repository WaiverRepository
	// Blobs keeps file bytes outside the database; nil stores base64 in the row.
	Blobs storage.BlobStore
	// Uploads counts stored waivers by storage backend; nil disables it.
	Uploads *prometheus.CounterVec
	Now     func() time.Time
}

func NewWaiverService(deps ServiceDeps) WaiverService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &waiverService{
		logger:     deps.Logger,
		repository: deps.Repository,
		blobs:      deps.Blobs,
		uploads:    deps.Uploads,
		now:        now,
	}
}

// IsPDF requires both the declared type and the file's leading bytes to say PDF.
func IsPDF(declaredContentType string, data []byte) bool {
	if !strings.Contains(strings.ToLower(declaredContentType), "pdf") {
		return false
	}
	return mimetype.Detect(data).Is(pdfContentType)
}

func (s *waiverService) Upload(ctx context.Context, in *UploadInput) (*UploadResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if in == nil {
		logger.Error("Upload received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	if len(in.Data) == 0 {
		return nil, apperrors.NewInvalidRequestError("No waiver file uploaded", nil)
	}

	if int64(len(in.Data)) > constants.MaxWaiverUploadBytes {
		logger.Warn("Waiver upload too large", "registration_id", in.RegistrationID, "bytes", len(in.Data))
		return nil, apperrors.NewInvalidRequestError("Waiver file must be 10 MB or smaller", nil)
	}

	if !IsPDF(in.DeclaredContentType, in.Data) {
		logger.Warn("Rejected non-PDF waiver upload",
			"registration_id", in.RegistrationID,
			"declared_type", in.DeclaredContentType,
			"detected_type", mimetype.Detect(in.Data).String(),
		)
		return nil, apperrors.NewInvalidRequestError("Only PDF files are allowed", nil)
	}

	uploadedAt := s.now().UTC()
	waiver := &models.Waiver{
		ID:             uuid.New().String(),
		RegistrationID: in.RegistrationID,
		PlayerName:     strings.TrimSpace(in.PlayerName),
		Filename:       cleanFilename(in.Filename),
		ContentType:    pdfContentType,
		Size:           int64(len(in.Data)),
		UploadDate:     uploadedAt,
	}

	if s.blobs != nil {
		key := s.blobs.Key(waiver.ID)
		if err := s.blobs.Put(ctx, key, in.Data, pdfContentType); err != nil {
			logger.Error("Failed to store waiver object", "key", key, "error", err)
			return nil, apperrors.NewExternalServiceError("unable to store waiver file", err)
		}
		waiver.Storage = models.WaiverStorageS3
		waiver.StorageKey = key
	} else {
		waiver.Storage = models.WaiverStorageDatabase
		waiver.FileData = base64.StdEncoding.EncodeToString(in.Data)
	}

	saved, err := s.repository.CreateWaiver(ctx, waiver)
	if err != nil {
		logger.Error("Failed to save waiver", "registration_id", in.RegistrationID, "error", err)
		return nil, err
	}

	linked, err := s.repository.LinkRegistration(ctx, saved.RegistrationID, saved.ID, uploadedAt)
	if err != nil {
		logger.Error("Failed to link waiver to registration", "registration_id", saved.RegistrationID, "waiver_id", saved.ID, "error", err)
		return nil, err
	}
	if !linked {
		logger.Warn("Waiver stored for unknown registration", "registration_id", saved.RegistrationID, "waiver_id", saved.ID)
	}

	if s.uploads != nil {
		s.uploads.WithLabelValues(saved.Storage).Inc()
	}

	logger.Info("Waiver uploaded",
		"registration_id", saved.RegistrationID,
		"waiver_id", saved.ID,
		"storage", saved.Storage,
		"bytes", saved.Size,
	)

	return &UploadResponse{WaiverDocumentID: saved.ID}, nil
}

func (s *waiverService) View(ctx context.Context, registrationID string) (*Document, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	waiver, err := s.repository.FindLatestWaiver(ctx, registrationID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Error("Failed to fetch waiver", "registration_id", registrationID, "error", err)
		}
		return nil, err
	}

	data, err := s.load(ctx, waiver)
	if err != nil {
		logger.Error("Failed to load waiver contents", "waiver_id", waiver.ID, "storage", waiver.Storage, "error", err)
		return nil, err
	}

	contentType := waiver.ContentType
	if contentType == "" {
		contentType = pdfContentType
	}

	return &Document{
		Filename:    cleanFilename(waiver.Filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *waiverService) load(ctx context.Context, waiver *models.Waiver) ([]byte, error) {
	if waiver.Storage == models.WaiverStorageS3 {
		if s.blobs == nil {
			return nil, apperrors.NewInternalServerError("waiver storage is not configured", fmt.Errorf("waiver %s is stored in s3 but no blob store is configured", waiver.ID))
		}
		data, err := s.blobs.Get(ctx, waiver.StorageKey)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return nil, apperrors.NewNotFoundError("Waiver not found", err)
			}
			return nil, apperrors.NewExternalServiceError("unable to read waiver file", err)
		}
		return data, nil
	}

	data, err := base64.StdEncoding.DecodeString(waiver.FileData)
	if err != nil {
		return nil, apperrors.NewInternalServerError("stored waiver is unreadable", err)
	}
	return data, nil
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return defaultWaiverFilename
	}
	return name
}
