package prometheus

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/portside/portside/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 10 * time.Second
	defaultPort       = 9090
)

// RequestsTotal counts handled HTTP requests by method, route and status.
var RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "portside",
	Name:      "http_requests_total",
	Help:      "Handled HTTP requests.",
}, []string{"method", "route", "status"})

// RequestDuration observes per-route request latency.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "portside",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// NewServer builds a basic HTTP server that exposes /metrics for Prometheus
// scraping, separate from the dashboard listener.
func NewServer(cfg config.PrometheusConfig) *http.Server {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
}
