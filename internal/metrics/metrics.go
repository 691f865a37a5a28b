// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application-level counters consumed by the use case and
// delivery layers.
type Collector interface {
	RecordSignIn(outcome string)
	RecordProfileProvisioned()
	RecordEntryCreated()
	RecordChatRequest(outcome string)
	RecordChatLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// PromCollector implements Collector on a Prometheus registry.
type PromCollector struct {
	signIns            *prometheus.CounterVec
	profileProvisioned prometheus.Counter
	entriesCreated     prometheus.Counter
	chatRequests       *prometheus.CounterVec
	chatLatency        prometheus.Histogram
	httpStatus         *prometheus.CounterVec
}

// Sign-in and chat outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// NewCollector creates a PromCollector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *PromCollector {
	c := &PromCollector{
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nerves_sign_in_total",
			Help: "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		profileProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nerves_profile_provisioned_total",
			Help: "Profiles created lazily on first sign-in.",
		}),
		entriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nerves_entries_created_total",
			Help: "Entries persisted.",
		}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nerves_chat_requests_total",
			Help: "Chat proxy requests by outcome.",
		}, []string{"outcome"}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nerves_chat_latency_seconds",
			Help:    "Chat proxy round-trip latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nerves_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signIns,
		c.profileProvisioned,
		c.entriesCreated,
		c.chatRequests,
		c.chatLatency,
		c.httpStatus,
	)

	return c
}

// RecordSignIn records one sign-in attempt.
func (c *PromCollector) RecordSignIn(outcome string) {
	c.signIns.WithLabelValues(outcome).Inc()
}

// RecordProfileProvisioned records one lazy profile creation.
func (c *PromCollector) RecordProfileProvisioned() {
	c.profileProvisioned.Inc()
}

// RecordEntryCreated records one persisted entry.
func (c *PromCollector) RecordEntryCreated() {
	c.entriesCreated.Inc()
}

// RecordChatRequest records one chat proxy request.
func (c *PromCollector) RecordChatRequest(outcome string) {
	c.chatRequests.WithLabelValues(outcome).Inc()
}

// RecordChatLatency records the chat round-trip time.
func (c *PromCollector) RecordChatLatency(duration time.Duration) {
	c.chatLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus records the response status code.
func (c *PromCollector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
