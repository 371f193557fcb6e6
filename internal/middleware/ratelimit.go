package middleware

import (
	"net/http"
	"strconv"

	"github.com/klau55/clicker-mobile-app/internal/logger"
	"github.com/klau55/clicker-mobile-app/internal/metrics"
	"github.com/klau55/clicker-mobile-app/internal/ratelimit"
	"github.com/klau55/clicker-mobile-app/internal/utils"
)

// RateLimit throttles next per client address. Rejected requests get a 429
// before reaching the handler. If the limiter itself fails the request is let
// through.
func RateLimit(limiter ratelimit.Limiter, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := utils.ClientIP(r)

			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warning("rate limiter for %s unavailable, allowing %s: %v", route, key, err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				metrics.RecordRateLimited(route)
				utils.WriteError(w, r, decision.Err(), false)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
