package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kavach/whitebox/pkg/audit"
	"github.com/kavach/whitebox/pkg/data"
	"github.com/kavach/whitebox/pkg/dataset"
	"github.com/kavach/whitebox/pkg/record"
	"github.com/urfave/cli/v3"
)

const (
	domainFlag       = "domain"
	datasetFlag      = "dataset"
	targetFlag       = "target"
	seedFlag         = "seed"
	testFractionFlag = "test-fraction"
	foldsFlag        = "folds"
	workersFlag      = "workers"
)

func newBatchCmd() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Score a labelled dataset and report hold-out quality and fold stability",
		UsageText: "whitebox batch --domain finance --dataset loans.csv",
		Action:    cmdBatch,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     domainFlag,
				Usage:    "Domain to audit [finance, health]",
				Required: true,
			},
			&cli.StringFlag{
				Name:  datasetFlag,
				Usage: "Path to the labelled CSV dataset (default: from config)",
			},
			&cli.StringFlag{
				Name:  targetFlag,
				Usage: "Name of the label column (default: from config)",
			},
			&cli.Uint64Flag{
				Name:  seedFlag,
				Usage: "Seed of the hold-out split and fold assignment (default: from config)",
			},
			&cli.FloatFlag{
				Name:  testFractionFlag,
				Usage: "Share of rows held out for scoring (default: from config)",
			},
			&cli.IntFlag{
				Name:  foldsFlag,
				Usage: "Number of stability folds (default: from config)",
			},
			&cli.IntFlag{
				Name:  workersFlag,
				Usage: "Number of folds scored concurrently (default: from config)",
			},
		},
	}
}

func cmdBatch(ctx context.Context, cmd *cli.Command) error {
	d, err := record.ParseDomain(cmd.String(domainFlag))
	if err != nil {
		return err
	}

	cfg := getConfig(cmd)
	dc, err := cfg.Config.For(d)
	if err != nil {
		return err
	}

	path := dc.Dataset
	if v := cmd.String(datasetFlag); v != "" {
		path = v
	}
	if path == "" {
		return fmt.Errorf("no dataset configured for %s, use --%s", d, datasetFlag)
	}

	target := dc.Target
	if v := cmd.String(targetFlag); v != "" {
		target = v
	}

	ds, err := dataset.LoadCSV(path, target, d)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	p, err := loadPipeline(cfg.Config, d)
	if err != nil {
		return err
	}

	r, err := audit.BatchAudit(ctx, p, ds, batchOptions(cmd))
	if err != nil {
		return fmt.Errorf("running batch audit: %w", err)
	}

	if err := saveBatch(cfg, r); err != nil {
		return err
	}

	w := writer(cmd)
	if cfg.Format == formatText {
		return renderBatch(w, r)
	}
	return encode(w, cfg.Format, r)
}

// batchOptions starts from the configured defaults and applies flags
// set on the command line.
func batchOptions(cmd *cli.Command) audit.BatchOptions {
	b := getConfig(cmd).Config.Batch
	opts := audit.BatchOptions{
		Seed:         b.Seed,
		TestFraction: b.TestFraction,
		Folds:        b.Folds,
		Workers:      b.Workers,
	}

	if cmd.IsSet(seedFlag) {
		opts.Seed = cmd.Uint64(seedFlag)
	}
	if cmd.IsSet(testFractionFlag) {
		opts.TestFraction = cmd.Float(testFractionFlag)
	}
	if cmd.IsSet(foldsFlag) {
		opts.Folds = cmd.Int(foldsFlag)
	}
	if cmd.IsSet(workersFlag) {
		opts.Workers = cmd.Int(workersFlag)
	}
	return opts
}

func saveBatch(cfg *appConfig, r *audit.BatchReport) error {
	run := &data.BatchRun{
		ID:           r.ID,
		Domain:       r.Domain.String(),
		StartedAt:    r.StartedAt,
		Seed:         r.Options.Seed,
		TestFraction: r.Options.TestFraction,
		Folds:        r.Options.Folds,
		Rows:         r.Rows,
		Unseen:       r.Unseen,
		Metrics:      r.Holdout,
	}
	if err := data.SaveBatchRun(cfg.DB, run); err != nil {
		return fmt.Errorf("saving batch run: %w", err)
	}

	events := make([]data.DriftEvent, len(r.Drift))
	for i, d := range r.Drift {
		events[i] = data.DriftEvent{
			Field:    d.Field,
			Value:    d.Value,
			Fallback: d.Fallback,
			Count:    d.Count,
		}
	}
	if err := data.SaveDrift(cfg.DB, r.ID, run.Domain, events); err != nil {
		return fmt.Errorf("saving drift: %w", err)
	}

	slog.Debug("batch saved", "id", r.ID, "db", cfg.DBPath, "drift", len(events))
	return nil
}
