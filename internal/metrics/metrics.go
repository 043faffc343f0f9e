// Package metrics exposes Prometheus counters for HTTP traffic and for the
// item, report and found-post lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "najdeno"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ItemsRegistered counts successfully registered items.
	ItemsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_registered_total",
		Help:      "Items registered.",
	})

	// ItemStatusChanges counts status changes by new status.
	ItemStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_status_changes_total",
		Help:      "Item status changes by new status.",
	}, []string{"status"})

	// ReportsFiled counts finder reports by kind (scan or sighting).
	ReportsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_filed_total",
		Help:      "Finder reports filed by kind.",
	}, []string{"kind"})

	// ReportsResolved counts reports resolved by their owner.
	ReportsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_resolved_total",
		Help:      "Finder reports resolved.",
	})

	// FoundPosts counts anonymous found posts.
	FoundPosts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "found_posts_total",
		Help:      "Found posts created.",
	})

	// FoundClaims counts claim attempts by outcome (claimed or conflict).
	FoundClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "found_claims_total",
		Help:      "Found post claim attempts by outcome.",
	}, []string{"outcome"})

	// ExternalFailures counts failed QR, photo and blob calls.
	ExternalFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_failures_total",
		Help:      "Failed external calls by operation.",
	}, []string{"op"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency. Routes are labeled by their
// chi pattern so IDs and tokens do not blow up cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
