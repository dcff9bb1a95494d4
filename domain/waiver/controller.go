package waiver

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/pkg/constants"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
)

const (
	uploadRequestsPerMinute = 10
	viewRequestsPerMinute   = 60
	waiverFormField         = "waiver"
)

func NewWaiverController(
	deps ServiceDeps,
	adminKey string,
	limiters factory.RateLimiterFactory,
) *router.RESTController {

	return router.NewRESTController(
		"WaiverController",
		"/api",
		func(rs *router.RouterService, c *router.RESTController) {
			if deps.Uploads == nil {
				deps.Uploads = rs.NewCounterVec(
					"camp_waiver_uploads_total",
					"Waiver documents stored, by storage backend.",
					"storage",
				)
			}
			service := NewWaiverService(deps)

			rs.AddPostHandler(c, limiters.CreateRateLimiter(uploadRequestsPerMinute, time.Minute), "upload-waiver", uploadWaiverHandler(service))
			rs.AddGetHandler(c, limiters.CreateRateLimiter(viewRequestsPerMinute, time.Minute), "view-waiver", viewWaiverHandler(service),
				router.AdminKeyMiddleware(adminKey))
		},
	)
}

func uploadWaiverHandler(service WaiverService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		if _, err := ctx.MultipartForm(); err != nil {
			// Bodies without a Content-Length only hit the router cap while parsing.
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				logger.Warn("Waiver upload exceeded the request body cap", "limit", tooLarge.Limit)
				return router.AppErrorResult(apperrors.NewPayloadTooLargeError("Request payload too large", err))
			}
			logger.Warn("Waiver upload is not a readable multipart form", "error", err)
			return router.BadRequestResult("Invalid multipart form", nil)
		}

		registrationID := strings.TrimSpace(ctx.PostForm("registrationId"))
		playerName := strings.TrimSpace(ctx.PostForm("playerName"))
		if registrationID == "" || playerName == "" {
			return router.BadRequestResult("Registration ID and player name are required", nil)
		}

		parsed, err := uuid.Parse(registrationID)
		if err != nil {
			logger.Warn("Invalid registration ID on waiver upload", "value", registrationID)
			return router.BadRequestResult("Invalid registration ID format", nil)
		}

		header, err := ctx.FormFile(waiverFormField)
		if err != nil {
			return router.BadRequestResult("No waiver file uploaded", nil)
		}

		file, err := header.Open()
		if err != nil {
			logger.Error("Failed to open uploaded waiver", "error", err)
			return router.InternalServerErrorResult("Failed to upload waiver")
		}
		defer file.Close()

		// One byte past the cap lets the service tell an oversized file apart.
		data, err := io.ReadAll(io.LimitReader(file, constants.MaxWaiverUploadBytes+1))
		if err != nil {
			logger.Error("Failed to read uploaded waiver", "error", err)
			return router.InternalServerErrorResult("Failed to upload waiver")
		}

		response, err := service.Upload(ctx.Request.Context(), &UploadInput{
			RegistrationID:      parsed.String(),
			PlayerName:          playerName,
			Filename:            header.Filename,
			DeclaredContentType: header.Header.Get("Content-Type"),
			Data:                data,
		})
		if err != nil {
			return router.AppErrorResultAs(err, "Failed to upload waiver")
		}

		return router.OKResult(response, "Waiver uploaded successfully")
	}
}

func viewWaiverHandler(service WaiverService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		registrationID, result := router.ParseUUIDParam(ctx, "registrationId", "Registration ID is required")
		if result != nil {
			return result
		}

		doc, err := service.View(ctx.Request.Context(), registrationID)
		if err != nil {
			return router.AppErrorResultAs(err, "Failed to fetch waiver")
		}

		return router.FileOKResult(doc.ContentType, doc.Filename, true, doc.Data)
	}
}
