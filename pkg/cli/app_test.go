package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kavach/whitebox/pkg/audit"
	"github.com/kavach/whitebox/pkg/config"
	"github.com/kavach/whitebox/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testConfig = "../../models/config.yaml"
)

func TestMain(m *testing.M) {
	initLogging(false)
	os.Exit(m.Run())
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func runApp(t *testing.T, configPath, dbPath string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	full := append([]string{appName, "--" + configFlag, configPath, "--" + dbFilePathFlag, dbPath}, args...)
	err := app.Run(context.Background(), full)
	return buf.String(), err
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "", want: formatText},
		{in: "text", want: formatText},
		{in: "JSON", want: formatJSON},
		{in: "yml", want: formatYAML},
		{in: " yaml ", want: formatYAML},
		{in: "xml", err: true},
	}

	for _, tt := range tests {
		got, err := parseFormat(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestReport_Text(t *testing.T) {
	out, err := runApp(t, testConfig, testDB(t))
	require.NoError(t, err)

	assert.Contains(t, out, reportTitle)
	assert.Contains(t, out, "[FINANCE DECISION]")
	assert.Contains(t, out, "Status     : APPROVED")
	assert.Contains(t, out, "Key Approval Factors:")
	assert.Contains(t, out, "[HEALTH INSURANCE ESTIMATE]")
	assert.Contains(t, out, "Base Premium     : ₹13,250")
	assert.Contains(t, out, "Key Cost Drivers:")
	assert.Contains(t, out, "Audit Completed Successfully")
}

func TestReport_JSON(t *testing.T) {
	out, err := runApp(t, testConfig, testDB(t), "--"+formatFlag, formatJSON)
	require.NoError(t, err)

	var got map[record.Domain]audit.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	fin := got[record.Finance].Report
	require.NotNil(t, fin)
	assert.Equal(t, audit.Approved, fin.Decision)
	assert.NotEmpty(t, fin.Statements)

	health := got[record.Health].Report
	require.NotNil(t, health)
	assert.InDelta(t, 13250.0, health.Base, 1e-9)
	assert.InDelta(t, health.Base+health.Adjustment, health.FinalValue, 1e-6)
}

func TestReport_MissingArtifactKeepsOtherDomain(t *testing.T) {
	models, err := filepath.Abs("../../models")
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Finance.Model = filepath.Join(models, "finance_model.json")
	cfg.Finance.Encoders = filepath.Join(models, "finance_encoders.json")
	cfg.Health.Model = filepath.Join(dir, "missing.yaml")
	cfg.Health.Encoders = filepath.Join(models, "health_encoders.json")
	require.NoError(t, config.Save(dir, cfg))

	out, err := runApp(t, filepath.Join(dir, config.FileName), testDB(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Status     : APPROVED")
	assert.Contains(t, out, "missing.yaml")
	assert.Contains(t, out, "Audit Completed With Errors")
}

func TestReport_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitebox.prom")
	_, err := runApp(t, testConfig, testDB(t), "--"+metricsFileFlag, path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "whitebox_audits_total")
	assert.Contains(t, string(b), "whitebox_statements_total")
}

func TestApp_InvalidFormat(t *testing.T) {
	_, err := runApp(t, testConfig, testDB(t), "--"+formatFlag, "xml")
	assert.Error(t, err)
}

func TestApp_MissingConfig(t *testing.T) {
	_, err := runApp(t, filepath.Join(t.TempDir(), "none.yaml"), testDB(t))
	assert.Error(t, err)
}
