package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcal_http_requests_total",
		Help: "Total number of presentation API requests processed.",
	}, []string{"method", "route"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "petcal_http_request_duration_seconds",
		Help:    "Histogram of latencies for presentation API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcal_sync_fetch_total",
		Help: "Backend fetches by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "petcal_sync_fetch_duration_seconds",
		Help:    "Histogram of backend fetch latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})

	cancelTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcal_cancel_total",
		Help: "Cancel attempts by outcome (confirmed, declined, failed).",
	}, []string{"outcome"})

	watchTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petcal_watch_ticks_total",
		Help: "Status-change watcher poll runs.",
	})

	statusChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petcal_status_changes_total",
		Help: "Status changes the watcher observed and recorded.",
	})
)

// Middleware records request counts and latencies for the presentation API.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := strconv.Itoa(ww.Status())
			httpRequestsTotal.WithLabelValues(r.Method, route).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch times one backend fetch; call the returned func with the
// outcome when it resolves.
func ObserveFetch(trigger string) func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		fetchTotal.WithLabelValues(trigger, outcome).Inc()
		fetchDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	}
}

// CountCancel records one cancel attempt outcome.
func CountCancel(outcome string) {
	cancelTotal.WithLabelValues(outcome).Inc()
}

// CountWatchTick records one watcher poll run.
func CountWatchTick() {
	watchTicks.Inc()
}

// CountStatusChanges records observed status transitions.
func CountStatusChanges(n int) {
	statusChanges.Add(float64(n))
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
