package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the triage service
type Metrics struct {
	// Poll cycle metrics
	PollsTotal       prometheus.Counter
	PollErrors       prometheus.Counter
	PollDuration     prometheus.Histogram
	MessagesObserved prometheus.Counter

	// Forwarding metrics
	MessagesForwarded prometheus.Counter
	ForwardErrors     *prometheus.CounterVec
	ForwardsDeduped   prometheus.Counter

	// Channel metrics
	ChannelFetchErrors prometheus.Counter

	// Media metrics
	MediaExtractionErrors prometheus.Counter

	// Kafka metrics
	AlertsPublished prometheus.Counter
	AlertErrors     *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = newMetrics()
	})
	return DefaultMetrics
}

func newMetrics() *Metrics {
	return &Metrics{
		PollsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_polls_total",
			Help: "Total number of poll cycles executed",
		}),
		PollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_poll_errors_total",
			Help: "Total number of poll cycles that failed",
		}),
		PollDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_poll_duration_seconds",
			Help:    "Duration of poll cycles in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		MessagesObserved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_messages_observed_total",
			Help: "Total number of messages retained within the poll window",
		}),
		MessagesForwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_messages_forwarded_total",
			Help: "Total number of messages forwarded to the target channel",
		}),
		ForwardErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_forward_errors_total",
			Help: "Total number of forwarding failures by reason",
		}, []string{"reason"}),
		ForwardsDeduped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_forwards_deduped_total",
			Help: "Total number of forwards skipped because the message was already forwarded",
		}),
		ChannelFetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_channel_fetch_errors_total",
			Help: "Total number of channel resolution or fetch failures",
		}),
		MediaExtractionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_media_extraction_errors_total",
			Help: "Total number of degraded media descriptors",
		}),
		AlertsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "triage_alerts_published_total",
			Help: "Total number of forward alerts published to Kafka",
		}),
		AlertErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_alert_errors_total",
			Help: "Total number of Kafka alert publish failures by reason",
		}, []string{"reason"}),
	}
}

// RecordPoll records a completed poll cycle
func (m *Metrics) RecordPoll(messages int, durationSeconds float64) {
	m.PollsTotal.Inc()
	m.MessagesObserved.Add(float64(messages))
	m.PollDuration.Observe(durationSeconds)
}

// RecordPollError records a failed poll cycle
func (m *Metrics) RecordPollError() {
	m.PollErrors.Inc()
}

// RecordForward records a successful forward
func (m *Metrics) RecordForward() {
	m.MessagesForwarded.Inc()
}

// RecordForwardError records a forwarding failure
func (m *Metrics) RecordForwardError(reason string) {
	m.ForwardErrors.WithLabelValues(reason).Inc()
}

// RecordForwardDeduped records a forward skipped by the dedup ledger
func (m *Metrics) RecordForwardDeduped() {
	m.ForwardsDeduped.Inc()
}

// RecordChannelFetchError records a channel-scoped resolution or fetch failure
func (m *Metrics) RecordChannelFetchError() {
	m.ChannelFetchErrors.Inc()
}

// RecordMediaExtractionError records a degraded media descriptor
func (m *Metrics) RecordMediaExtractionError() {
	m.MediaExtractionErrors.Inc()
}

// RecordAlertPublished records a Kafka alert publish
func (m *Metrics) RecordAlertPublished() {
	m.AlertsPublished.Inc()
}

// RecordAlertError records a Kafka alert publish failure
func (m *Metrics) RecordAlertError(reason string) {
	m.AlertErrors.WithLabelValues(reason).Inc()
}
