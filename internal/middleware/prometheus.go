package middleware

import (
	"net/http"
	"time"

	"github.com/crucial707/strumspace-admin/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Prometheus records request duration and count for each request except scrapes of /metrics.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/metrics" {
			return
		}
		metrics.RecordRequest(r.Method, routePath(r), rec.status, time.Since(start).Seconds())
	})
}

// unmatchedRoute labels requests no route matched (404, 405), so arbitrary
// client paths never become label values.
const unmatchedRoute = "unmatched"

// routePath returns the matched chi pattern, e.g. /edit-post/{id}.
func routePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}
