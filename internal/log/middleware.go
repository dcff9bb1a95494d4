package log

import (
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaRequestID seeds the correlation ID from the Lambda invocation so
// function logs and application logs share one identifier.
func LambdaRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := CorrelationIDFromContext(ctx); !ok {
			if lc, found := lambdacontext.FromContext(ctx); found && lc.AwsRequestID != "" {
				r = r.WithContext(ContextWithCorrelationID(ctx, lc.AwsRequestID))
			}
		}
		next.ServeHTTP(w, r)
	})
}
