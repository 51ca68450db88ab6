package middleware

import (
	"net/http"
	"time"

	"medical-appointment-api/pkg/response"

	"github.com/go-chi/httprate"
)

// NewRateLimiter allows requestsPerSecond requests per client IP.
func NewRateLimiter(requestsPerSecond int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerSecond,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w)
		}),
	)
}
