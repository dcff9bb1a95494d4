package constants

import "time"

// RFC3339DateTimeFormat is used for every timestamp that leaves the service.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

const (
	DefaultRateLimitRequests      = 100
	DefaultRateLimitWindowMinutes = 1
)

func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}

const (
	// MaxWaiverUploadBytes caps a single waiver PDF.
	MaxWaiverUploadBytes int64 = 10 << 20
	// DefaultMaxRequestBodyBytes leaves room for multipart framing around a full-size waiver.
	DefaultMaxRequestBodyBytes int64 = 11 << 20
)

const (
	AdminKeyHeader      = "X-Admin-Key"
	AdminKeyQuery       = "adminKey"
	AdminKeyQueryLegacy = "admin_key"
	CorrelationIDHeader = "X-Correlation-ID"
)

const DefaultGalleryCacheTTL = 5 * time.Minute
