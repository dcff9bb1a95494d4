package waiver

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/storage"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

const registrationID = "5b0e6c1d-0000-4000-8000-000000000001"

type memoryBlobs struct {
	objects map[string][]byte
	putErr  error
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: map[string][]byte{}}
}

func (m *memoryBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *memoryBlobs) Ping(context.Context) error { return nil }

func (m *memoryBlobs) Key(documentID string) string { return "waivers/" + documentID + ".pdf" }

func fixedNow() time.Time {
	return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
}

func echoWaiver(_ context.Context, w *models.Waiver) (*models.Waiver, error) {
	return w, nil
}

func TestWaiverService_Upload(t *testing.T) {
	t.Run("stores base64 in the database and links the registration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockWaiverRepository(ctrl)
		uploads := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_waiver_uploads_total"}, []string{"storage"})
		service := NewWaiverService(ServiceDeps{
			Logger:     log.NewLoggerWithJSONOutput(),
			Repository: repo,
			Uploads:    uploads,
			Now:        fixedNow,
		})

		var saved *models.Waiver
		repo.EXPECT().CreateWaiver(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, w *models.Waiver) (*models.Waiver, error) {
				saved = w
				return echoWaiver(ctx, w)
			})
		repo.EXPECT().LinkRegistration(gomock.Any(), registrationID, gomock.Any(), fixedNow()).Return(true, nil)

		resp, err := service.Upload(context.Background(), &UploadInput{
			RegistrationID:      registrationID,
			PlayerName:          " Ava Santos ",
			Filename:            "C:\\Users\\maria\\signed waiver.pdf",
			DeclaredContentType: "application/pdf",
			Data:                samplePDF,
		})
		require.NoError(t, err)

		assert.Equal(t, saved.ID, resp.WaiverDocumentID)
		assert.Equal(t, "Ava Santos", saved.PlayerName)
		assert.Equal(t, "signed waiver.pdf", saved.Filename)
		assert.Equal(t, models.WaiverStorageDatabase, saved.Storage)
		assert.Equal(t, int64(len(samplePDF)), saved.Size)
		assert.Equal(t, base64.StdEncoding.EncodeToString(samplePDF), saved.FileData)

		metric := &dto.Metric{}
		require.NoError(t, uploads.WithLabelValues(models.WaiverStorageDatabase).Write(metric))
		assert.Equal(t, float64(1), metric.GetCounter().GetValue())
	})

	t.Run("stores bytes in the blob store when configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockWaiverRepository(ctrl)
		blobs := newMemoryBlobs()
		service := NewWaiverService(ServiceDeps{
			Logger:     log.NewLoggerWithJSONOutput(),
			Repository: repo,
			Blobs:      blobs,
			Now:        fixedNow,
		})

		var saved *models.Waiver
		repo.EXPECT().CreateWaiver(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, w *models.Waiver) (*models.Waiver, error) {
				saved = w
				return echoWaiver(ctx, w)
			})
		repo.EXPECT().LinkRegistration(gomock.Any(), registrationID, gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := service.Upload(context.Background(), &UploadInput{
			RegistrationID:      registrationID,
			PlayerName:          "Ava Santos",
			Filename:            "waiver.pdf",
			DeclaredContentType: "application/pdf",
			Data:                samplePDF,
		})
		require.NoError(t, err)

		assert.Equal(t, models.WaiverStorageS3, saved.Storage)
		assert.Empty(t, saved.FileData)
		assert.Equal(t, samplePDF, blobs.objects[saved.StorageKey])
	})

	t.Run("unknown registration still keeps the waiver", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockWaiverRepository(ctrl)
		service := NewWaiverService(ServiceDeps{Logger: log.NewLoggerWithJSONOutput(), Repository: repo})

		repo.EXPECT().CreateWaiver(gomock.Any(), gomock.Any()).DoAndReturn(echoWaiver)
		repo.EXPECT().LinkRegistration(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		resp, err := service.Upload(context.Background(), &UploadInput{
			RegistrationID:      registrationID,
			PlayerName:          "Ava Santos",
			DeclaredContentType: "application/pdf",
			Data:                samplePDF,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.WaiverDocumentID)
	})

	rejections := []struct {
		name    string
		input   *UploadInput
		message string
	}{
		{
			name:    "declared image type",
			input:   &UploadInput{RegistrationID: registrationID, PlayerName: "Ava", DeclaredContentType: "image/png", Data: samplePDF},
			message: "Only PDF files are allowed",
		},
		{
			name:    "pdf label on non-pdf bytes",
			input:   &UploadInput{RegistrationID: registrationID, PlayerName: "Ava", DeclaredContentType: "application/pdf", Data: []byte("\x89PNG\r\n\x1a\n0000")},
			message: "Only PDF files are allowed",
		},
		{
			name:    "empty file",
			input:   &UploadInput{RegistrationID: registrationID, PlayerName: "Ava", DeclaredContentType: "application/pdf"},
			message: "No waiver file uploaded",
		},
		{
			name: "oversized file",
			input: &UploadInput{
				RegistrationID:      registrationID,
				PlayerName:          "Ava",
				DeclaredContentType: "application/pdf",
				Data:                append(append([]byte(nil), samplePDF...), make([]byte, 10<<20)...),
			},
			message: "Waiver file must be 10 MB or smaller",
		},
	}

	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := NewWaiverService(ServiceDeps{
				Logger:     log.NewLoggerWithJSONOutput(),
				Repository: NewMockWaiverRepository(ctrl),
			})

			_, err := service.Upload(context.Background(), tc.input)

			require.Error(t, err)
			assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
			assert.Equal(t, tc.message, apperrors.GetHumanReadableMessage(err))
		})
	}

	t.Run("blob store failure is an external service error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		blobs := newMemoryBlobs()
		blobs.putErr = errors.New("s3: access denied")
		service := NewWaiverService(ServiceDeps{
			Logger:     log.NewLoggerWithJSONOutput(),
			Repository: NewMockWaiverRepository(ctrl),
			Blobs:      blobs,
		})

		_, err := service.Upload(context.Background(), &UploadInput{
			RegistrationID:      registrationID,
			PlayerName:          "Ava",
			DeclaredContentType: "application/pdf",
			Data:                samplePDF,
		})

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeExternalServiceError, apperrors.GetErrorType(err))
	})
}

func TestWaiverService_View(t *testing.T) {
	t.Run("decodes a database waiver", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockWaiverRepository(ctrl)
		service := NewWaiverService(ServiceDeps{Logger: log.NewLoggerWithJSONOutput(), Repository: repo})

		repo.EXPECT().FindLatestWaiver(gomock.Any(), registrationID).Return(&models.Waiver{
			ID:          "w-1",
			Filename:    "signed.pdf",
			ContentType: "application/pdf",
			Storage:     models.WaiverStorageDatabase,
			FileData:    base64.StdEncoding.EncodeToString(samplePDF),
		}, nil)

		doc, err := service.View(context.Background(), registrationID)
		require.NoError(t, err)
		assert.Equal(t, "signed.pdf", doc.Filename)
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Equal(t, samplePDF, doc.Data)
	})

	t.Run("reads a blob store waiver", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockWaiverRepository(ctrl)
		blobs := newMemoryBlobs()
		blobs.objects["waivers/w-2.pdf"] = samplePDF
		service := NewWaiverService(ServiceDeps{Logger: log.NewLoggerWithJSONOutput(), Repository: repo, Blobs: blobs})

		repo.EXPECT().FindLatestWaiver(gomock.Any(), registrationID).Return(&models.Waiver{
			ID:         "w-2",
			Storage:    models.WaiverStorageS3,
			StorageKey: "waivers/w-2.pdf",
		}, nil)

		doc, err := service.View(context.Background(), registrationID)
		require.NoError(t, err)
		assert.Equal(t, "waiver.pdf", doc.Filename)
		assert.Equal(t, samplePDF, doc.Data)
	})

	t.Run("missing object is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockWaiverRepository(ctrl)
		service := NewWaiverService(ServiceDeps{Logger: log.NewLoggerWithJSONOutput(), Repository: repo, Blobs: newMemoryBlobs()})

		repo.EXPECT().FindLatestWaiver(gomock.Any(), registrationID).Return(&models.Waiver{
			ID:         "w-3",
			Storage:    models.WaiverStorageS3,
			StorageKey: "waivers/w-3.pdf",
		}, nil)

		_, err := service.View(context.Background(), registrationID)
		assert.Equal(t, apperrors.StatusNotFound, apperrors.HTTPStatusCode(err))
	})

	t.Run("no waiver for registration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockWaiverRepository(ctrl)
		service := NewWaiverService(ServiceDeps{Logger: log.NewLoggerWithJSONOutput(), Repository: repo})

		repo.EXPECT().FindLatestWaiver(gomock.Any(), registrationID).
			Return(nil, apperrors.NewNotFoundError("Waiver not found", nil))

		_, err := service.View(context.Background(), registrationID)
		assert.Equal(t, apperrors.StatusNotFound, apperrors.HTTPStatusCode(err))
		assert.Equal(t, "Waiver not found", apperrors.GetHumanReadableMessage(err))
	})
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("application/pdf", samplePDF))
	assert.True(t, IsPDF("application/x-pdf", samplePDF))
	assert.False(t, IsPDF("", samplePDF))
	assert.False(t, IsPDF("application/pdf", []byte("hello world")))
}
