package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/tuanvumaihuynh/catalog-service/internal/http/metric"
)

const MetricsPath = "/metrics"

// Metrics records request count, latency and response size per matched
// route. The metrics endpoint itself and skipPaths are not recorded.
func Metrics(m *metric.Metrics, skipPaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == MetricsPath || slices.Contains(skipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			m.InflightRequests.Inc()
			defer m.InflightRequests.Dec()

			next.ServeHTTP(ww, r)

			labels := prometheusLabels(r, ww.Status())
			m.RequestsTotal.With(labels).Inc()
			m.RequestDuration.With(labels).Observe(time.Since(start).Seconds())
			m.ResponseSize.With(labels).Observe(float64(ww.BytesWritten()))
		})
	}
}

func prometheusLabels(r *http.Request, status int) map[string]string {
	// handlers that never call WriteHeader answer 200
	if status == 0 {
		status = http.StatusOK
	}

	return map[string]string{
		"method": r.Method,
		"route":  routePattern(r),
		"status": strconv.Itoa(status),
	}
}
