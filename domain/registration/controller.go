package registration

import (
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
)

const registrationRequestsPerMinute = 10

func NewRegistrationController(
	deps ServiceDeps,
	limiters factory.RateLimiterFactory,
) *router.RESTController {

	return router.NewRESTController(
		"RegistrationController",
		"/api",
		func(rs *router.RouterService, c *router.RESTController) {
			if deps.Registered == nil {
				deps.Registered = rs.NewCounterVec(
					"camp_registrations_total",
					"Registrations saved, by program and status.",
					"program", "status",
				)
			}
			service := NewRegistrationService(deps)

			limiter := limiters.CreateRateLimiter(registrationRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, limiter, "register", registerHandler(service))
		},
	)
}

func registerHandler(service RegistrationService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateRegistrationRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Registration request rejected", "error", err)
			return router.BindingErrorResult(err, &req, "Missing required fields")
		}

		response, err := service.Register(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResultAs(err, "Registration failed")
		}

		return router.OKResult(response, "Registration successful")
	}
}
