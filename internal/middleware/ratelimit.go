package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/divinetrims/orderdesk/internal/httpx"
)

// RateLimit caps the whole process at rps requests per second with a burst of
// the same size. The service is single-tenant, so one shared limiter is
// enough; rps <= 0 disables it.
func RateLimit(rps int, next http.Handler) http.Handler {
	if rps <= 0 {
		return next
	}
	limiter := rate.NewLimiter(rate.Limit(rps), rps)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			httpx.JSONError(w, http.StatusTooManyRequests, "rate_limited", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
