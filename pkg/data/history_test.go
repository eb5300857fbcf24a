package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testRun(id, domain string, started time.Time) *BatchRun {
	return &BatchRun{
		ID:           id,
		Domain:       domain,
		StartedAt:    started,
		Seed:         42,
		TestFraction: 0.2,
		Folds:        5,
		Rows:         100,
		Unseen:       3,
		Metrics:      map[string]float64{"accuracy": 0.93},
	}
}

func TestSaveBatchRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, SaveBatchRun(db, testRun("a", "finance", now)))
	require.NoError(t, SaveBatchRun(db, testRun("b", "health", now.Add(time.Hour))))

	all, err := ListBatchRuns(db, nil, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, uint64(42), all[1].Seed)
	assert.Equal(t, now, all[1].StartedAt)
	assert.Equal(t, 0.93, all[1].Metrics["accuracy"])

	domain := "finance"
	list, err := ListBatchRuns(db, &domain, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	list, err = ListBatchRuns(db, nil, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveBatchRun_Errors(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, SaveBatchRun(db, nil))
	assert.Error(t, SaveBatchRun(db, &BatchRun{ID: "x"}))
	assert.ErrorIs(t, SaveBatchRun(nil, testRun("a", "finance", time.Now())), errDBNotInitialized)

	r := testRun("dup", "finance", time.Now())
	require.NoError(t, SaveBatchRun(db, r))
	assert.Error(t, SaveBatchRun(db, r))
}

func TestSaveDrift_Summary(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveBatchRun(db, testRun("r1", "health", time.Now())))
	require.NoError(t, SaveBatchRun(db, testRun("r2", "health", time.Now())))
	require.NoError(t, SaveBatchRun(db, testRun("r3", "finance", time.Now())))

	require.NoError(t, SaveDrift(db, "r1", "health", []DriftEvent{
		{Field: "city", Value: "Springfield", Fallback: "Boston", Count: 2},
		{Field: "job_title", Value: "Pilot", Fallback: "Actor", Count: 1},
	}))
	require.NoError(t, SaveDrift(db, "r2", "health", []DriftEvent{
		{Field: "city", Value: "Springfield", Fallback: "Boston", Count: 3},
	}))
	require.NoError(t, SaveDrift(db, "r3", "finance", []DriftEvent{
		{Field: "education", Value: "PhD", Fallback: "Graduate", Count: 1},
	}))
	require.NoError(t, SaveDrift(db, "r3", "finance", nil))

	domain := "health"
	list, err := GetDriftSummary(db, &domain, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "city", list[0].Field)
	assert.Equal(t, int64(5), list[0].Count)
	assert.Equal(t, int64(2), list[0].Runs)
	assert.NotEmpty(t, list[0].LastSeen)

	all, err := GetDriftSummary(db, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveDrift_UnknownRun(t *testing.T) {
	db := setupTestDB(t)
	err := SaveDrift(db, "missing", "health", []DriftEvent{{Field: "city", Value: "x", Fallback: "y", Count: 1}})
	assert.Error(t, err)
}

func TestNilDB(t *testing.T) {
	_, err := ListBatchRuns(nil, nil, 1)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = GetDriftSummary(nil, nil, 1)
	assert.ErrorIs(t, err, errDBNotInitialized)
	assert.ErrorIs(t, SaveDrift(nil, "r", "d", []DriftEvent{{}}), errDBNotInitialized)
}

func TestHistory_YAMLKeys(t *testing.T) {
	b, err := yaml.Marshal(&BatchRun{ID: "r1", Domain: "finance", TestFraction: 0.2})
	require.NoError(t, err)
	assert.Contains(t, string(b), "started_at:")
	assert.Contains(t, string(b), "test_fraction: 0.2")

	b, err = yaml.Marshal(&DriftSummary{Field: "city", LastSeen: "2026-01-02T03:04:05Z"})
	require.NoError(t, err)
	assert.Contains(t, string(b), "last_seen:")
}
