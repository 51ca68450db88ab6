package middleware

import (
	"net/http"
	"strconv"
	"time"

	"medical-appointment-api/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
)

type MetricsMiddleware struct {
	metrics *metrics.Collector
}

func NewMetricsMiddleware(metrics *metrics.Collector) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

// Handle records request count and latency per route template, so /doctors/{id} is one
// series however many doctors are queried.
func (m *MetricsMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.metrics.InFlightGauge.Inc()
		defer m.metrics.InFlightGauge.Dec()

		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		m.metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.statusCode)).Inc()
		m.metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
