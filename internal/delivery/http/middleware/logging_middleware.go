package middleware

import (
	"net/http"
	"time"

	"medical-appointment-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const CorrelationIDHeader = "X-Correlation-ID"

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

type LoggingMiddleware struct {
	log *logrus.Logger
}

func NewLoggingMiddleware(log *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{log: log}
}

// Handle tags the request with a correlation id, taken from the client when it sent one,
// and stores a logrus entry carrying it in the request context for the layers below.
func (m *LoggingMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, correlationID)

		entry := m.log.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"method":         r.Method,
			"path":           r.URL.Path,
		})
		ctx := logger.WithEntry(r.Context(), entry)

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		completed := entry.WithFields(logrus.Fields{
			"status":      rec.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
		})
		if rec.statusCode >= http.StatusInternalServerError {
			completed.Error("Request completed")
			return
		}
		completed.Info("Request completed")
	})
}
