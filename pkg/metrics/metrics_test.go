package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	Audits.WithLabelValues("finance", OutcomeOK).Inc()
	Statements.WithLabelValues("health", StateSuppressed).Add(3)
	UnseenCategories.WithLabelValues("health", "city").Inc()
	AuditLatency.WithLabelValues("finance").Observe(0.01)
	BatchMetric.WithLabelValues("finance", "accuracy").Set(0.93)

	p := filepath.Join(t.TempDir(), "whitebox.prom")
	require.NoError(t, WriteTextfile(p))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	out := string(b)

	assert.Contains(t, out, `whitebox_audits_total{domain="finance",outcome="ok"}`)
	assert.Contains(t, out, `whitebox_statements_total{domain="health",state="suppressed"}`)
	assert.Contains(t, out, `whitebox_unseen_categories_total{domain="health",field="city"}`)
	assert.Contains(t, out, `whitebox_batch_metric{domain="finance",metric="accuracy"} 0.93`)
	assert.Contains(t, out, "whitebox_audit_duration_seconds_bucket")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
