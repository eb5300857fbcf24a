package cli

import (
	"context"

	"github.com/kavach/whitebox/pkg/data"
	"github.com/kavach/whitebox/pkg/record"
	"github.com/urfave/cli/v3"
)

const (
	limitFlag    = "limit"
	defaultLimit = 20
)

func newHistoryCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past batch runs and unseen-category drift",
		Commands: []*cli.Command{
			{
				Name:   "runs",
				Usage:  "List recent batch runs with their hold-out metrics",
				Action: cmdHistoryRuns,
				Flags:  historyFlags(),
			},
			{
				Name:   "drift",
				Usage:  "List the most frequent unseen categorical values",
				Action: cmdHistoryDrift,
				Flags:  historyFlags(),
			},
		},
	}
}

func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  domainFlag,
			Usage: "Only show this domain [finance, health] (optional)",
		},
		&cli.IntFlag{
			Name:  limitFlag,
			Usage: "Maximum number of rows to return",
			Value: defaultLimit,
		},
	}
}

func cmdHistoryRuns(_ context.Context, cmd *cli.Command) error {
	domain, err := optionalDomain(cmd)
	if err != nil {
		return err
	}

	cfg := getConfig(cmd)
	list, err := data.ListBatchRuns(cfg.DB, domain, cmd.Int(limitFlag))
	if err != nil {
		return err
	}

	w := writer(cmd)
	if cfg.Format == formatText {
		return renderRuns(w, list)
	}
	return encode(w, cfg.Format, list)
}

func cmdHistoryDrift(_ context.Context, cmd *cli.Command) error {
	domain, err := optionalDomain(cmd)
	if err != nil {
		return err
	}

	cfg := getConfig(cmd)
	list, err := data.GetDriftSummary(cfg.DB, domain, cmd.Int(limitFlag))
	if err != nil {
		return err
	}

	w := writer(cmd)
	if cfg.Format == formatText {
		return renderDrift(w, list)
	}
	return encode(w, cfg.Format, list)
}

func optionalDomain(cmd *cli.Command) (*string, error) {
	v := cmd.String(domainFlag)
	if v == "" {
		return nil, nil
	}
	d, err := record.ParseDomain(v)
	if err != nil {
		return nil, err
	}
	s := d.String()
	return &s, nil
}
