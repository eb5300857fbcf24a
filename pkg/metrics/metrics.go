package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	StateRendered   = "rendered"
	StateSuppressed = "suppressed"
)

var (
	// Registry holds all whitebox collectors.
	Registry = prometheus.NewRegistry()

	// Audits counts single-record audits by domain and outcome.
	Audits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "whitebox_audits_total",
		Help: "Total number of record audits",
	}, []string{"domain", "outcome"})

	// Statements counts narrative statements by rendered or suppressed state.
	Statements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "whitebox_statements_total",
		Help: "Total number of narrative statements considered",
	}, []string{"domain", "state"})

	// UnseenCategories counts categorical values that fell back to the
	// first known category.
	UnseenCategories = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "whitebox_unseen_categories_total",
		Help: "Total number of unseen categorical values",
	}, []string{"domain", "field"})

	// AuditLatency is the duration of single-record audits.
	AuditLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "whitebox_audit_duration_seconds",
		Help:    "Latency of single-record audits",
		Buckets: prometheus.DefBuckets,
	}, []string{"domain"})

	// BatchMetric holds the latest batch audit quality metrics.
	BatchMetric = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "whitebox_batch_metric",
		Help: "Latest batch audit metric value",
	}, []string{"domain", "metric"})
)

func init() {
	Registry.MustRegister(
		Audits,
		Statements,
		UnseenCategories,
		AuditLatency,
		BatchMetric,
	)
}

// WriteTextfile writes the current metric values in the Prometheus text
// format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
