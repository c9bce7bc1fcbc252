package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Instruction metrics
	InstructionsProcessed *prometheus.CounterVec
	InstructionDuration   prometheus.Histogram
	InstructionAmount     *prometheus.HistogramVec

	// Audit metrics
	AuditFailures prometheus.Counter

	// Idempotency metrics
	IdempotencyReplays prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		InstructionsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payinstr_instructions_processed_total",
				Help: "Total number of payment instructions processed by outcome",
			},
			[]string{"status", "status_code"},
		),
		InstructionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "payinstr_instruction_duration_seconds",
			Help:    "Duration of instruction processing",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		InstructionAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payinstr_executed_amount",
				Help:    "Amounts of executed instructions in minor units",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"currency"},
		),

		AuditFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payinstr_audit_failures_total",
			Help: "Total number of audit records that could not be written",
		}),

		IdempotencyReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payinstr_idempotency_replays_total",
			Help: "Total number of responses replayed from the idempotency store",
		}),

		RateLimitHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payinstr_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),
	}
}

// RecordOutcome counts a processed instruction.
func (m *Metrics) RecordOutcome(status, statusCode string, duration time.Duration) {
	m.InstructionsProcessed.WithLabelValues(status, statusCode).Inc()
	m.InstructionDuration.Observe(duration.Seconds())
}

// RecordAmount observes the amount of an executed instruction.
func (m *Metrics) RecordAmount(currency string, amount int64) {
	m.InstructionAmount.WithLabelValues(currency).Observe(float64(amount))
}

// RecordAuditFailure counts a dropped audit record.
func (m *Metrics) RecordAuditFailure() {
	m.AuditFailures.Inc()
}

// RecordIdempotencyReplay counts a replayed response.
func (m *Metrics) RecordIdempotencyReplay() {
	m.IdempotencyReplays.Inc()
}

// RecordRateLimitHit counts a throttled request.
func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHits.Inc()
}
