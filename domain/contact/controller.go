package contact

import (
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
	"gorm.io/gorm"
)

const contactRequestsPerMinute = 5

func NewContactController(
	db *gorm.DB,
	logger *log.Logger,
	transport mailer.Mailer,
	composer *mailer.Composer,
	limiters factory.RateLimiterFactory,
) *router.RESTController {

	return router.NewRESTController(
		"ContactController",
		"/api",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewContactRepository(db)
			service := NewContactService(logger, repository, transport, composer)

			rs.AddPostHandler(c, limiters.CreateRateLimiter(contactRequestsPerMinute, time.Minute), "contact", submitContactHandler(service))
		},
	)
}

func submitContactHandler(service ContactService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateContactRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Contact request rejected", "error", err)
			return router.BindingErrorResult(err, &req, "Missing required fields")
		}

		response, err := service.Submit(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResultAs(err, "Contact form submission failed")
		}

		return router.OKResult(response, "Contact form submitted successfully")
	}
}
