package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kavach/whitebox/pkg/dataset"
	"github.com/kavach/whitebox/pkg/encoder"
	"github.com/kavach/whitebox/pkg/metrics"
	"github.com/kavach/whitebox/pkg/record"
	"github.com/kavach/whitebox/pkg/stats"
	"golang.org/x/sync/errgroup"
)

// BatchOptions controls partitioning of a batch audit.
type BatchOptions struct {
	Seed         uint64  `json:"seed" yaml:"seed"`
	TestFraction float64 `json:"test_fraction" yaml:"test_fraction"`
	Folds        int     `json:"folds" yaml:"folds"`
	Workers      int     `json:"workers" yaml:"workers"`
}

// Summary is the spread of one metric across folds.
type Summary struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
}

// FoldResult holds the metrics of one fold.
type FoldResult struct {
	Fold    int                `json:"fold" yaml:"fold"`
	Rows    int                `json:"rows" yaml:"rows"`
	Failed  int                `json:"failed" yaml:"failed"`
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`

	drift map[encoder.Warning]int
}

// Drift counts how often an unseen value fell back.
type Drift struct {
	Field    string `json:"field" yaml:"field"`
	Value    string `json:"value" yaml:"value"`
	Fallback string `json:"fallback" yaml:"fallback"`
	Count    int    `json:"count" yaml:"count"`
}

// BatchReport is the result of a batch audit.
type BatchReport struct {
	ID        string             `json:"id" yaml:"id"`
	Domain    record.Domain      `json:"domain" yaml:"domain"`
	StartedAt time.Time          `json:"started_at" yaml:"started_at"`
	Options   BatchOptions       `json:"options" yaml:"options"`
	Rows      int                `json:"rows" yaml:"rows"`
	TestRows  int                `json:"test_rows" yaml:"test_rows"`
	Failed    int                `json:"failed" yaml:"failed"`
	Holdout   map[string]float64 `json:"holdout" yaml:"holdout"`
	Folds     []FoldResult       `json:"folds" yaml:"folds"`
	Stability map[string]Summary `json:"stability" yaml:"stability"`
	Unseen    int                `json:"unseen" yaml:"unseen"`
	Drift     []Drift            `json:"drift,omitempty" yaml:"drift,omitempty"`
}

// BatchAudit scores a labeled dataset with the pipeline: metrics on a
// seeded hold-out split, then per-fold metrics for stability. Folds are
// scored concurrently. Rows that fail validation are counted, not fatal.
func BatchAudit(ctx context.Context, p *Pipeline, ds *dataset.Dataset, opts BatchOptions) (*BatchReport, error) {
	if p == nil || ds == nil {
		return nil, errors.New("pipeline and dataset required")
	}
	if ds.Domain != p.Domain() {
		return nil, fmt.Errorf("dataset domain %s does not match pipeline domain %s", ds.Domain, p.Domain())
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	r := &BatchReport{
		ID:        uuid.NewString(),
		Domain:    p.Domain(),
		StartedAt: time.Now().UTC(),
		Options:   opts,
		Rows:      ds.Len(),
		Stability: make(map[string]Summary),
	}

	_, test, err := stats.Split(ds.Len(), opts.TestFraction, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("splitting dataset: %w", err)
	}
	r.TestRows = len(test)

	holdout, err := scoreRows(ctx, p, ds, test)
	if err != nil {
		return nil, fmt.Errorf("scoring hold-out: %w", err)
	}
	r.Holdout = holdout.Metrics

	folds, err := stats.KFold(ds.Len(), opts.Folds, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("partitioning folds: %w", err)
	}

	r.Folds = make([]FoldResult, len(folds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, idx := range folds {
		g.Go(func() error {
			res, err := scoreRows(gctx, p, ds, idx)
			if err != nil {
				return fmt.Errorf("fold %d: %w", i, err)
			}
			res.Fold = i
			r.Folds[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drift := make(map[encoder.Warning]int)
	perMetric := make(map[string][]float64)
	for _, f := range r.Folds {
		r.Failed += f.Failed
		for w, n := range f.drift {
			drift[w] += n
			r.Unseen += n
		}
		for k, v := range f.Metrics {
			perMetric[k] = append(perMetric[k], v)
		}
	}
	for k, vs := range perMetric {
		mean, std := stats.MeanStd(vs)
		r.Stability[k] = Summary{Mean: mean, Std: std}
	}
	r.Drift = sortedDrift(drift)

	for k, v := range r.Holdout {
		metrics.BatchMetric.WithLabelValues(r.Domain.String(), k).Set(v)
	}

	slog.Info("batch audit complete",
		"domain", r.Domain, "rows", r.Rows, "failed", r.Failed, "unseen", r.Unseen)
	return r, nil
}

func scoreRows(ctx context.Context, p *Pipeline, ds *dataset.Dataset, idx []int) (*FoldResult, error) {
	res := &FoldResult{
		Rows:  len(idx),
		drift: make(map[encoder.Warning]int),
	}

	rows, labels := ds.Subset(idx)
	yTrue := make([]float64, 0, len(rows))
	yPred := make([]float64, 0, len(rows))
	for j, rec := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := p.Score(rec)
		if err != nil {
			slog.Debug("row skipped", "row", idx[j], "error", err)
			res.Failed++
			continue
		}
		for _, w := range s.Warnings {
			res.drift[w]++
		}
		yTrue = append(yTrue, labels[j])
		yPred = append(yPred, s.Prediction)
	}

	if len(yTrue) == 0 {
		return nil, errors.New("no rows could be scored")
	}

	m, err := qualityMetrics(p.Domain(), yTrue, yPred)
	if err != nil {
		return nil, err
	}
	res.Metrics = m
	return res, nil
}

func qualityMetrics(d record.Domain, yTrue, yPred []float64) (map[string]float64, error) {
	if d == record.Finance {
		c, err := stats.Classification(yTrue, yPred)
		if err != nil {
			return nil, err
		}
		return map[string]float64{
			"accuracy":    c.Accuracy,
			"precision":   c.Precision,
			"recall":      c.Recall,
			"f1":          c.F1,
			"specificity": c.Specificity,
		}, nil
	}

	rm, err := stats.Regression(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		"r2":                 rm.R2,
		"mae":                rm.MAE,
		"rmse":               rm.RMSE,
		"explained_variance": rm.ExplainedVariance,
	}, nil
}

func sortedDrift(m map[encoder.Warning]int) []Drift {
	list := make([]Drift, 0, len(m))
	for w, n := range m {
		list = append(list, Drift{Field: w.Field, Value: w.Value, Fallback: w.Fallback, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		if list[i].Field != list[j].Field {
			return list[i].Field < list[j].Field
		}
		return list[i].Value < list[j].Value
	})
	return list
}
