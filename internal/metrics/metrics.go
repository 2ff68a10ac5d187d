// Package metrics collects Prometheus metrics and exposes them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for RecordCommand
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeSkipped    = "skipped"
	OutcomeSuperseded = "superseded"
	OutcomeRefused    = "refused"
)

// Recorder is used by the list engine
type Recorder interface {
	RecordCommand(command, outcome string)
	RecordCacheSize(n int)
}

// ClientRecorder is used by the posts API client
type ClientRecorder interface {
	RecordRequest(op string, statusCode int, duration time.Duration)
	RecordCircuitOpen(op string)
}

// ServerRecorder is used by the collection server's HTTP middleware
type ServerRecorder interface {
	RecordHTTPRequest(route, method string, statusCode int, duration time.Duration)
}

// Collector implements all recorder interfaces on top of Prometheus
type Collector struct {
	commands        *prometheus.CounterVec
	cacheSize       prometheus.Gauge
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	circuitRejected *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// Ensure Collector implements the recorder interfaces.
var (
	_ Recorder       = (*Collector)(nil)
	_ ClientRecorder = (*Collector)(nil)
	_ ServerRecorder = (*Collector)(nil)
)

// NewCollector creates a Collector and registers its metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postdeck_engine_commands_total",
			Help: "List engine commands by command and outcome",
		}, []string{"command", "outcome"}),
		cacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "postdeck_engine_cached_posts",
			Help: "Number of posts currently materialized in the list cache",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postdeck_api_requests_total",
			Help: "Posts API requests by operation and status code (0 = no response)",
		}, []string{"op", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "postdeck_api_request_duration_seconds",
			Help:    "Posts API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		circuitRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postdeck_api_circuit_rejections_total",
			Help: "Posts API calls rejected locally because the circuit was open",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postdeck_http_requests_total",
			Help: "Collection server requests by route, method and status code",
		}, []string{"route", "method", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "postdeck_http_request_duration_seconds",
			Help:    "Collection server request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		c.commands,
		c.cacheSize,
		c.requests,
		c.requestLatency,
		c.circuitRejected,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

// RecordCommand counts one engine command outcome
func (c *Collector) RecordCommand(command, outcome string) {
	c.commands.WithLabelValues(command, outcome).Inc()
}

// RecordCacheSize sets the number of cached posts
func (c *Collector) RecordCacheSize(n int) {
	c.cacheSize.Set(float64(n))
}

// RecordRequest counts one API request and observes its latency
func (c *Collector) RecordRequest(op string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(op, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordCircuitOpen counts a call rejected by the circuit breaker
func (c *Collector) RecordCircuitOpen(op string) {
	c.circuitRejected.WithLabelValues(op).Inc()
}

// RecordHTTPRequest counts one served request and observes its latency
func (c *Collector) RecordHTTPRequest(route, method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// Nop discards everything. Used when no registry is wired.
type Nop struct{}

func (Nop) RecordCommand(string, string) {}
func (Nop) RecordCacheSize(int) {}
func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordCircuitOpen(string) {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}

// Handler returns the HTTP handler for Prometheus scrapes
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
