package admin

import (
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"gorm.io/gorm"
)

const adminRequestsPerMinute = 60

func NewAdminController(
	db *gorm.DB,
	logger *log.Logger,
	adminKey string,
	limiters factory.RateLimiterFactory,
) *router.RESTController {

	return router.NewRESTController(
		"AdminController",
		"/api",
		func(rs *router.RouterService, c *router.RESTController) {
			service := NewAdminService(logger, NewAdminRepository(db))

			limiter := limiters.CreateRateLimiter(adminRequestsPerMinute, time.Minute)
			guard := router.AdminKeyMiddleware(adminKey)

			rs.AddGetHandler(c, limiter, "admin-registrations", dashboardHandler(service), guard)

			for _, path := range []string{"admin-registration", "admin-registration/:id"} {
				rs.AddGetHandler(c, limiter, path, getRegistrationHandler(service), guard)
				rs.AddPutHandler(c, limiter, path, updateRegistrationHandler(service), guard)
				rs.AddDeleteHandler(c, limiter, path, deleteRegistrationHandler(service), guard)
			}

			rs.AddPutHandler(c, limiter, "admin-contact", updateContactStatusHandler(service), guard)
			rs.AddPutHandler(c, limiter, "admin-contact/:id", updateContactStatusHandler(service), guard)
		},
	)
}

func dashboardHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.Dashboard(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResultAs(err, "Failed to retrieve admin data")
		}

		return router.OKResult(response, "Admin data retrieved successfully")
	}
}

func getRegistrationHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, result := router.ParseUUIDParam(ctx, "id", "Registration ID is required")
		if result != nil {
			return result
		}

		response, err := service.GetRegistration(ctx.Request.Context(), id)
		if err != nil {
			return router.AppErrorResultAs(err, "Operation failed")
		}

		return router.OKResult(response, "Registration retrieved successfully")
	}
}

func updateRegistrationHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		id, result := router.ParseUUIDParam(ctx, "id", "Registration ID is required")
		if result != nil {
			return result
		}

		var req UpdateRegistrationRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Registration update rejected", "id", id, "error", err)
			return router.BindingErrorResult(err, &req, "Missing required fields")
		}

		response, err := service.UpdateRegistration(ctx.Request.Context(), id, &req)
		if err != nil {
			return router.AppErrorResultAs(err, "Operation failed")
		}

		return router.OKResult(response, "Registration updated successfully")
	}
}

func deleteRegistrationHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, result := router.ParseUUIDParam(ctx, "id", "Registration ID is required")
		if result != nil {
			return result
		}

		response, err := service.DeleteRegistration(ctx.Request.Context(), id)
		if err != nil {
			return router.AppErrorResultAs(err, "Operation failed")
		}

		return router.OKResult(response, "Registration deleted successfully")
	}
}

func updateContactStatusHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		id, result := router.ParseUUIDParam(ctx, "id", "Contact submission ID is required")
		if result != nil {
			return result
		}

		var req UpdateContactStatusRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Contact status update rejected", "id", id, "error", err)
			return router.BindingErrorResult(err, &req, "Status is required")
		}

		response, err := service.UpdateContactStatus(ctx.Request.Context(), id, &req)
		if err != nil {
			return router.AppErrorResultAs(err, "Operation failed")
		}

		return router.OKResult(response, "Contact status updated successfully")
	}
}
