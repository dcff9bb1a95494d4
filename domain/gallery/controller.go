package gallery

import (
	"time"

	"github.com/mcsoccercamp/camp-api/config/router"
	"github.com/mcsoccercamp/camp-api/pkg/factory"
)

const galleryRequestsPerMinute = 120

func NewGalleryController(service GalleryService, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewRESTController(
		"GalleryController",
		"/api",
		func(rs *router.RouterService, c *router.RESTController) {
			limiter := limiters.CreateRateLimiter(galleryRequestsPerMinute, time.Minute)

			rs.AddGetHandler(c, limiter, "gallery", listGalleryHandler(service))
			rs.AddGetHandler(c, limiter, "media/gallery", listGalleryHandler(service))
		},
	)
}

func listGalleryHandler(service GalleryService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.List(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResultAs(err, "Failed to load gallery media")
		}

		return router.OKResult(response, "Gallery media retrieved successfully")
	}
}
