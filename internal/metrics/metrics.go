// Package metrics holds the Prometheus collectors for the admin backend.
// Everything registers on the default registry, which /metrics serves.
package metrics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "strumspace"

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid"
	LoginError   = "error"
)

var (
	// RequestDuration is labelled by method, route and status.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"method", "path", "status"})

	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "path", "status"})

	Panics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "panics_total",
		Help:      "Handler panics recovered by middleware.",
	})

	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "admin",
		Name:      "login_attempts_total",
		Help:      "Admin login attempts by outcome.",
	}, []string{"outcome"})

	// ContentChanges counts admin mutations, e.g. {resource="post", action="update"}.
	ContentChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "admin",
		Name:      "content_changes_total",
		Help:      "Admin content changes by resource and action.",
	}, []string{"resource", "action"})

	SongRequestsPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "song_requests_pruned_total",
		Help:      "Song requests removed by the retention job.",
	})
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestTotal,
		Panics,
		LoginAttempts,
		ContentChanges,
		SongRequestsPruned,
	)
}

var idSegment = regexp.MustCompile(`^[0-9]+$`)

// NormalizePath replaces every all-digit segment with {id}, so /a/1/2 becomes
// /a/{id}/{id}.
func NormalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if idSegment.MatchString(seg) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	labels := prometheus.Labels{
		"method": method,
		"path":   NormalizePath(path),
		"status": strconv.Itoa(statusCode),
	}
	RequestDuration.With(labels).Observe(durationSeconds)
	RequestTotal.With(labels).Inc()
}

func IncPanics() { Panics.Inc() }

func IncLoginAttempt(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

func IncContentChange(resource, action string) {
	ContentChanges.WithLabelValues(resource, action).Inc()
}

// AddSongRequestsPruned adds the row count of one prune run. Non-positive n is ignored.
func AddSongRequestsPruned(n int64) {
	if n > 0 {
		SongRequestsPruned.Add(float64(n))
	}
}
