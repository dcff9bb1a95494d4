package router

import (
	"crypto/subtle"
	"strings"

	"github.com/mcsoccercamp/camp-api/pkg/constants"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
)

// AdminKeyMiddleware guards admin routes with a shared key taken from the
// X-Admin-Key header or the adminKey/admin_key query parameters. An empty
// configured key rejects every request.
func AdminKeyMiddleware(adminKey string) MiddlewareFunc {
	expected := []byte(strings.TrimSpace(adminKey))

	return func(c *RequestContext) {
		provided := adminKeyFromRequest(c)

		if len(expected) == 0 || provided == "" || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			GetLogger(c).Warn("Admin request rejected", "path", c.Request.URL.Path, "key_present", provided != "")
			rejected := AppErrorResult(apperrors.NewUnauthorizedError("Unauthorized", nil))
			c.AbortWithStatusJSON(rejected.StatusCode, rejected.ToJSON())
			return
		}

		c.Next()
	}
}

func adminKeyFromRequest(c *RequestContext) string {
	if key := strings.TrimSpace(c.GetHeader(constants.AdminKeyHeader)); key != "" {
		return key
	}
	if key := strings.TrimSpace(c.Query(constants.AdminKeyQuery)); key != "" {
		return key
	}
	return strings.TrimSpace(c.Query(constants.AdminKeyQueryLegacy))
}
