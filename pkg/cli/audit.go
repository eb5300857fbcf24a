package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kavach/whitebox/pkg/record"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	financeFileFlag = "finance"
	healthFileFlag  = "health"
)

var errNoRecords = errors.New("at least one of --finance or --health is required")

func newAuditCmd() *cli.Command {
	return &cli.Command{
		Name:      "audit",
		Usage:     "Audit applicant records read from files",
		UsageText: "whitebox audit --finance loan.json --health member.yaml",
		Action:    cmdAudit,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  financeFileFlag,
				Usage: "Path to a JSON or YAML loan applicant record",
			},
			&cli.StringFlag{
				Name:  healthFileFlag,
				Usage: "Path to a JSON or YAML insurance applicant record",
			},
		},
	}
}

// cmdReport audits the reference record of every domain.
func cmdReport(_ context.Context, cmd *cli.Command) error {
	inputs := make(map[record.Domain]record.Record, len(record.Domains))
	for _, d := range record.Domains {
		inputs[d] = record.Sample(d)
	}
	return runAudit(cmd, inputs)
}

func cmdAudit(_ context.Context, cmd *cli.Command) error {
	files := map[record.Domain]string{
		record.Finance: cmd.String(financeFileFlag),
		record.Health:  cmd.String(healthFileFlag),
	}

	inputs := make(map[record.Domain]record.Record)
	for d, path := range files {
		if path == "" {
			continue
		}
		rec, err := readRecord(path)
		if err != nil {
			return fmt.Errorf("reading %s record: %w", d, err)
		}
		inputs[d] = rec
	}

	if len(inputs) == 0 {
		return errNoRecords
	}

	return runAudit(cmd, inputs)
}

func runAudit(cmd *cli.Command, inputs map[record.Domain]record.Record) error {
	cfg := getConfig(cmd)
	outcomes := newAuditor(cfg.Config).Run(inputs)

	w := writer(cmd)
	if cfg.Format == formatText {
		return renderReport(w, outcomes, cfg.Config.Currency)
	}
	return encode(w, cfg.Format, outcomes)
}

// readRecord decodes a single record. YAML is used for .yaml and .yml
// files, JSON otherwise.
func readRecord(path string) (record.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	var rec record.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rec)
	default:
		err = json.Unmarshal(b, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding file %s: %w", path, err)
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("file %s holds no fields", path)
	}
	return rec, nil
}
