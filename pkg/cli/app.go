package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kavach/whitebox/pkg/audit"
	"github.com/kavach/whitebox/pkg/config"
	"github.com/kavach/whitebox/pkg/data"
	"github.com/kavach/whitebox/pkg/explain"
	"github.com/kavach/whitebox/pkg/logging"
	"github.com/kavach/whitebox/pkg/metrics"
	"github.com/kavach/whitebox/pkg/record"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName = "whitebox"

	debugFlag       = "debug"
	configFlag      = "config"
	dbFilePathFlag  = "db"
	formatFlag      = "format"
	metricsFileFlag = "metrics-file"

	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config      *config.Config
	DBPath      string
	DB          *sql.DB
	Debug       bool
	Format      string
	MetricsFile string
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Explainable audit of credit approval and health premium models",
		Writer:                os.Stdout,
		Metadata:              map[string]any{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:  configFlag,
				Usage: "Path to the config file (default: ~/.whitebox/config.yaml)",
			},
			&cli.StringFlag{
				Name:  dbFilePathFlag,
				Usage: "Path to the Sqlite history database file",
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format [text, json, yaml]",
				Value: formatText,
			},
			&cli.StringFlag{
				Name:  metricsFileFlag,
				Usage: "Writes Prometheus metrics to this textfile on exit (optional)",
			},
		},
		Commands: []*cli.Command{
			newAuditCmd(),
			newBatchCmd(),
			newHistoryCmd(),
		},
		Action: cmdReport,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool(debugFlag) {
				initLogging(true)
			}

			format, err := parseFormat(cmd.String(formatFlag))
			if err != nil {
				return ctx, err
			}

			cfg, err := loadConfig(cmd.String(configFlag))
			if err != nil {
				return ctx, err
			}

			dbPath := cmd.String(dbFilePathFlag)
			if dbPath == "" {
				dbPath = filepath.Join(cfg.Dir(), data.DataFileName)
			}

			if err := data.Init(dbPath); err != nil {
				return ctx, fmt.Errorf("initializing database: %w", err)
			}

			db, err := data.GetDB(dbPath)
			if err != nil {
				return ctx, fmt.Errorf("opening database: %w", err)
			}

			cmd.Root().Metadata[appConfigKey] = &appConfig{
				Config:      cfg,
				DBPath:      dbPath,
				DB:          db,
				Debug:       cmd.Bool(debugFlag),
				Format:      format,
				MetricsFile: cmd.String(metricsFileFlag),
			}
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig)
			if !ok {
				return nil
			}
			if cfg.DB != nil {
				cfg.DB.Close()
			}
			if cfg.MetricsFile != "" {
				if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
				slog.Debug("metrics written", "path", cfg.MetricsFile)
			}
			return nil
		},
	}
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logging.NewCLIHandler(os.Stderr, level)))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	dir, created, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		return nil, fmt.Errorf("resolving home dir: %w", err)
	}
	if created {
		slog.Info("created app dir, copy model artifacts here", "path", dir)
	}

	cfg, err := config.ReadOrCreate(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func parseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", formatText, "txt":
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q, expected one of: text, json, yaml", s)
	}
}

// newAuditor loads the pipeline of every domain. A domain whose
// artifacts fail to load is kept as an error so the other one still runs.
func newAuditor(cfg *config.Config) *audit.Auditor {
	a := audit.NewAuditor()
	for _, d := range record.Domains {
		p, err := loadPipeline(cfg, d)
		a.Set(d, p, err)
	}
	return a
}

func loadPipeline(cfg *config.Config, d record.Domain) (*audit.Pipeline, error) {
	dc, err := cfg.For(d)
	if err != nil {
		return nil, err
	}
	return audit.LoadPipeline(d, dc.Model, dc.Encoders,
		audit.WithNarrator(explain.NewNarrator(explain.WithCurrency(cfg.Currency))),
		audit.WithLogger(slog.Default()),
	)
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
