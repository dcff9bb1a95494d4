package waiver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUploadWaiverHandler_BodyOverCapWithoutLength(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_BYTES", "1024")

	ctrl := gomock.NewController(t)
	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	rs.MountController(NewWaiverController(
		ServiceDeps{Logger: logger, Repository: NewMockWaiverRepository(ctrl)},
		"s3cret",
		factory.NewDefaultRateLimiterFactory(nil, logger),
	))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("registrationId", registrationID))
	require.NoError(t, writer.WriteField("playerName", "Ava Santos"))
	part, err := writer.CreateFormFile(waiverFormField, "waiver.pdf")
	require.NoError(t, err)
	_, err = part.Write(append(append([]byte{}, samplePDF...), bytes.Repeat([]byte("0"), 4096)...))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// Hide the length so the cap is only hit while the form is parsed.
	req := httptest.NewRequest(http.MethodPost, "/api/upload-waiver", struct{ *bytes.Buffer }{&body})
	req.ContentLength = -1
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	var env struct {
		Success bool   `json:"success"`
		Code    int    `json:"code"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Request payload too large", env.Error)
}
