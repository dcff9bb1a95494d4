package payment

import (
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
)

const paymentIntentRequestsPerMinute = 20

func NewPaymentController(
	logger *log.Logger,
	provider payments.Provider,
	currency string,
	limiters factory.RateLimiterFactory,
) *router.RESTController {

	return router.NewRESTController(
		"PaymentController",
		"/api",
		func(rs *router.RouterService, c *router.RESTController) {
			service := NewPaymentService(logger, provider, currency)

			limiter := limiters.CreateRateLimiter(paymentIntentRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, limiter, "create-payment-intent", createPaymentIntentHandler(service))
		},
	)
}

func createPaymentIntentHandler(service PaymentService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreatePaymentIntentRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Payment intent request rejected", "error", err)
			return router.BindingErrorResult(err, &req, "Amount and program are required")
		}

		response, err := service.CreateIntent(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResultAs(err, "Failed to create payment intent")
		}

		return router.OKResult(response, "Payment intent created")
	}
}
