package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the service.
type Metrics struct {
	Registry       *prometheus.Registry
	ScrapesTotal   *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	FieldsResolved *prometheus.CounterVec
	RequestsTotal  *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_scrapes_total",
			Help: "Total metadata extraction attempts by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_fetch_duration_seconds",
			Help:    "Latency of outbound document fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	fields := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_fields_resolved_total",
			Help: "Total metadata fields successfully resolved, by field.",
		},
		[]string{"field"},
	)
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total API requests by route.",
		},
		[]string{"route"},
	)

	registry.MustRegister(scrapes, fetchDuration, fields, requests)

	return &Metrics{
		Registry:       registry,
		ScrapesTotal:   scrapes,
		FetchDuration:  fetchDuration,
		FieldsResolved: fields,
		RequestsTotal:  requests,
	}
}

// IncScrape increments the extraction counter for an outcome label.
func (m *Metrics) IncScrape(outcome string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records an outbound fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncField increments the resolved-fields counter for a field label.
func (m *Metrics) IncField(field string) {
	if m == nil {
		return
	}
	m.FieldsResolved.WithLabelValues(field).Inc()
}

// IncRequest increments the API request counter for a route label.
func (m *Metrics) IncRequest(route string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route).Inc()
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server error", "error", err)
		}
	}()
}
