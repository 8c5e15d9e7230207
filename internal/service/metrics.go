package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are registered with a registry owned by the service so more than
// one service can live in a process.
type metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	searchesTotal     *prometheus.CounterVec
	searchComparisons *prometheus.HistogramVec
	searchDuration    *prometheus.HistogramVec

	employeesAppendedTotal prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &metrics{
		registry: registry,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flatfile_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flatfile_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		searchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flatfile_searches_total",
				Help: "Total number of searches by kind",
			},
			[]string{"kind", "cached", "found"},
		),
		searchComparisons: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flatfile_search_comparisons",
				Help:    "Records compared per search",
				Buckets: prometheus.ExponentialBuckets(1, 2, 20),
			},
			[]string{"kind"},
		),
		searchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flatfile_search_duration_seconds",
				Help:    "Search duration in seconds, as measured by the search",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		employeesAppendedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flatfile_employees_appended_total",
				Help: "Total number of employees appended to the store",
			},
		),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// recordSearch records a search result, cached results didn't compare
// anything so only their count is recorded.
func (m *metrics) recordSearch(result *data.SearchResult) {
	if result == nil {
		return
	}
	m.searchesTotal.WithLabelValues(result.Kind,
		strconv.FormatBool(result.Cached),
		strconv.FormatBool(result.Found())).Inc()
	if result.Cached {
		return
	}
	m.searchComparisons.WithLabelValues(result.Kind).Observe(float64(result.Comparisons))
	m.searchDuration.WithLabelValues(result.Kind).Observe(result.Elapsed.Seconds())
}

func (m *metrics) recordAppended(n int) {
	m.employeesAppendedTotal.Add(float64(n))
}

// middleware records every request against the route template it matched.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				endpoint = template
			}
		}
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.httpRequestsTotal.WithLabelValues(r.Method, endpoint,
			strconv.Itoa(rw.statusCode)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, endpoint).
			Observe(time.Since(start).Seconds())
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
