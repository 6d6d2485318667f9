// internal/middleware/logging.go
//
// Request logging and Prometheus counters.
//
// Context
// -------
// Runs after chi's RequestID so every entry carries `request_id`.  The
// request-scoped logger is stored with logger.WithContext; handlers fetch
// it with logger.FromContext.  Route labels use the chi pattern (e.g.
// `/question/{id}`) to keep metric cardinality bounded.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/reing/internal/logger"
	"github.com/yanizio/reing/internal/metrics"
)

// RequestLog logs one INFO line per request and records metrics.
func RequestLog(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With("request_id", chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)

			metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status/100)+"xx").Inc()
			metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			l.Infow("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", elapsed.Milliseconds(),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
