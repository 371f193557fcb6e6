package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/klau55/clicker-mobile-app/internal/logger"
	"github.com/klau55/clicker-mobile-app/internal/utils"
)

// LoggerMiddleware tags every request with an id and logs it once it is served.
// A client-supplied X-Request-ID is kept.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(utils.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(utils.RequestIDHeader, requestID)
		}
		w.Header().Set(utils.RequestIDHeader, requestID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		logger.Request(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), requestID)
	})
}

// responseWriter captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
