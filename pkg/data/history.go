package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	insertBatchRunSQL = `INSERT INTO batch_run (
			id, domain, started_at, seed, test_fraction, folds, row_count, unseen, metrics
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectBatchRunsSQL = `SELECT
			id, domain, started_at, seed, test_fraction, folds, row_count, unseen, metrics
		FROM batch_run
		WHERE domain = COALESCE(?, domain)
		ORDER BY started_at DESC, id
		LIMIT ?
	`

	insertDriftSQL = `INSERT INTO drift (
			run_id, domain, field, value, fallback, count, seen_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectDriftSummarySQL = `SELECT
			domain, field, value, fallback, SUM(count) AS total, COUNT(DISTINCT run_id), MAX(seen_at)
		FROM drift
		WHERE domain = COALESCE(?, domain)
		GROUP BY domain, field, value, fallback
		ORDER BY total DESC, domain, field, value
		LIMIT ?
	`
)

// BatchRun is one persisted batch audit.
type BatchRun struct {
	ID           string             `json:"id" yaml:"id"`
	Domain       string             `json:"domain" yaml:"domain"`
	StartedAt    time.Time          `json:"started_at" yaml:"started_at"`
	Seed         uint64             `json:"seed" yaml:"seed"`
	TestFraction float64            `json:"test_fraction" yaml:"test_fraction"`
	Folds        int                `json:"folds" yaml:"folds"`
	Rows         int                `json:"rows" yaml:"rows"`
	Unseen       int                `json:"unseen" yaml:"unseen"`
	Metrics      map[string]float64 `json:"metrics" yaml:"metrics"`
}

// DriftEvent counts how often a categorical value fell back during a run.
type DriftEvent struct {
	Field    string `json:"field" yaml:"field"`
	Value    string `json:"value" yaml:"value"`
	Fallback string `json:"fallback" yaml:"fallback"`
	Count    int    `json:"count" yaml:"count"`
}

// DriftSummary aggregates drift events across runs.
type DriftSummary struct {
	Domain   string `json:"domain" yaml:"domain"`
	Field    string `json:"field" yaml:"field"`
	Value    string `json:"value" yaml:"value"`
	Fallback string `json:"fallback" yaml:"fallback"`
	Count    int64  `json:"count" yaml:"count"`
	Runs     int64  `json:"runs" yaml:"runs"`
	LastSeen string `json:"last_seen" yaml:"last_seen"`
}

// SaveBatchRun persists a batch run.
func SaveBatchRun(db *sql.DB, r *BatchRun) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil || r.ID == "" || r.Domain == "" {
		return errors.New("batch run requires id and domain")
	}

	m, err := json.Marshal(r.Metrics)
	if err != nil {
		return fmt.Errorf("error marshaling metrics for run %s: %w", r.ID, err)
	}

	if _, err := db.Exec(insertBatchRunSQL,
		r.ID,
		r.Domain,
		r.StartedAt.UTC().Format(timeFormat),
		int64(r.Seed),
		r.TestFraction,
		r.Folds,
		r.Rows,
		r.Unseen,
		string(m),
	); err != nil {
		return fmt.Errorf("error inserting batch run %s: %w", r.ID, err)
	}

	slog.Debug("batch run saved", "id", r.ID, "domain", r.Domain)
	return nil
}

// ListBatchRuns returns the most recent runs, optionally for one domain.
func ListBatchRuns(db *sql.DB, domain *string, limit int) ([]*BatchRun, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectBatchRunsSQL, domain, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying batch runs: %w", err)
	}
	defer rows.Close()

	list := make([]*BatchRun, 0)
	for rows.Next() {
		r := &BatchRun{}
		var started, metrics string
		var seed int64
		if err := rows.Scan(&r.ID, &r.Domain, &started, &seed, &r.TestFraction,
			&r.Folds, &r.Rows, &r.Unseen, &metrics); err != nil {
			return nil, fmt.Errorf("error scanning batch run: %w", err)
		}
		r.Seed = uint64(seed)
		if r.StartedAt, err = time.Parse(timeFormat, started); err != nil {
			return nil, fmt.Errorf("error parsing start time of run %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(metrics), &r.Metrics); err != nil {
			return nil, fmt.Errorf("error parsing metrics of run %s: %w", r.ID, err)
		}
		list = append(list, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch runs: %w", err)
	}
	return list, nil
}

// SaveDrift persists the drift events observed by a run.
func SaveDrift(db *sql.DB, runID, domain string, events []DriftEvent) error {
	if db == nil {
		return errDBNotInitialized
	}
	if len(events) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(timeFormat)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting drift tx: %w", err)
	}

	stmt, err := tx.Prepare(insertDriftSQL)
	if err != nil {
		rollbackTransaction(tx)
		return fmt.Errorf("error preparing drift insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(runID, domain, e.Field, e.Value, e.Fallback, e.Count, now); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("error inserting drift for %s: %w", e.Field, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing drift tx: %w", err)
	}

	slog.Debug("drift saved", "run", runID, "events", len(events))
	return nil
}

// GetDriftSummary returns the most frequent unseen values across runs.
func GetDriftSummary(db *sql.DB, domain *string, limit int) ([]*DriftSummary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectDriftSummarySQL, domain, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying drift summary: %w", err)
	}
	defer rows.Close()

	list := make([]*DriftSummary, 0)
	for rows.Next() {
		s := &DriftSummary{}
		if err := rows.Scan(&s.Domain, &s.Field, &s.Value, &s.Fallback,
			&s.Count, &s.Runs, &s.LastSeen); err != nil {
			return nil, fmt.Errorf("error scanning drift summary: %w", err)
		}
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drift summary: %w", err)
	}
	return list, nil
}
