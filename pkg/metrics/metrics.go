// Package metrics provides Prometheus metrics for the barcode lookup system.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LookupsTotal is a counter of barcode lookups by outcome.
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookups_total",
			Help: "Total number of barcode lookups",
		},
		[]string{"outcome"},
	)

	// LookupDuration is a histogram of end-to-end lookup duration.
	LookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lookup_duration_seconds",
			Help:    "Duration of barcode lookup operations",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// SourceFetchesTotal is a counter of adapter fetches by source and outcome.
	SourceFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetches_total",
			Help: "Total number of fetches per product data source",
		},
		[]string{"source", "outcome"},
	)

	// SourceFetchDuration is a histogram of per-source fetch latencies.
	SourceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Duration of fetches per product data source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// OffersDroppedTotal is a counter of store offers dropped because their
	// price could not be converted to the target currency.
	OffersDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offers_dropped_total",
			Help: "Total number of store offers dropped due to failed currency conversion",
		},
		[]string{"currency"},
	)

	// RateRefreshesTotal is a counter of exchange rate table refreshes.
	RateRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_refreshes_total",
			Help: "Total number of exchange rate table refreshes",
		},
		[]string{"status"},
	)

	// HTTPRequestsTotal is a counter of total HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration is a histogram of HTTP request latencies.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
)

// Init initializes Prometheus metrics registry.
func Init() {
	// Register all metrics
	prometheus.MustRegister(
		LookupsTotal,
		LookupDuration,
		SourceFetchesTotal,
		SourceFetchDuration,
		OffersDroppedTotal,
		RateRefreshesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// ServeHTTP serves Prometheus metrics on the specified address.
func ServeHTTP(addr string) error {
	http.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      http.DefaultServeMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordLookup records a completed lookup and its duration.
func RecordLookup(outcome string, duration time.Duration) {
	LookupsTotal.WithLabelValues(outcome).Inc()
	LookupDuration.Observe(duration.Seconds())
}

// RecordSourceFetch records a fetch attempt against a product data source.
func RecordSourceFetch(source, outcome string, duration time.Duration) {
	SourceFetchesTotal.WithLabelValues(source, outcome).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordOfferDropped records a store offer dropped during merging.
func RecordOfferDropped(currency string) {
	OffersDroppedTotal.WithLabelValues(currency).Inc()
}

// RecordRateRefresh records an exchange rate table refresh.
func RecordRateRefresh(status string) {
	RateRefreshesTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
