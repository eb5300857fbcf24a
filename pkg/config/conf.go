package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kavach/whitebox/pkg/record"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"

	dirMode  = 0700
	fileMode = 0600
)

// Domain locates the artifacts and dataset of one domain.
type Domain struct {
	Model    string `yaml:"model" toml:"model" json:"model"`
	Encoders string `yaml:"encoders" toml:"encoders" json:"encoders"`
	Dataset  string `yaml:"dataset,omitempty" toml:"dataset" json:"dataset,omitempty"`
	Target   string `yaml:"target" toml:"target" json:"target" validate:"required"`
}

// Batch configures batch audits.
type Batch struct {
	Seed         uint64  `yaml:"seed" toml:"seed" json:"seed"`
	TestFraction float64 `yaml:"test_fraction" toml:"test_fraction" json:"test_fraction" validate:"gt=0,lt=1"`
	Folds        int     `yaml:"folds" toml:"folds" json:"folds" validate:"gte=2"`
	Workers      int     `yaml:"workers" toml:"workers" json:"workers" validate:"gte=1"`
}

// Config represents app config object.
type Config struct {
	Currency string `yaml:"currency" toml:"currency" json:"currency" validate:"required"`
	Finance  Domain `yaml:"finance" toml:"finance" json:"finance"`
	Health   Domain `yaml:"health" toml:"health" json:"health"`
	Batch    Batch  `yaml:"batch" toml:"batch" json:"batch"`

	dir string
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Currency: "₹",
		Finance: Domain{
			Model:    "finance_model.json",
			Encoders: "finance_encoders.json",
			Dataset:  "loan_approval_dataset.csv",
			Target:   "loan_status",
		},
		Health: Domain{
			Model:    "health_model.yaml",
			Encoders: "health_encoders.json",
			Dataset:  "health_insurance.csv",
			Target:   "claim",
		},
		Batch: Batch{
			Seed:         42,
			TestFraction: 0.2,
			Folds:        5,
			Workers:      runtime.NumCPU(),
		},
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Dir returns the directory relative paths resolve against.
func (c *Config) Dir() string {
	return c.dir
}

// For returns the domain section with paths resolved against the config
// directory.
func (c *Config) For(d record.Domain) (Domain, error) {
	var s Domain
	switch d {
	case record.Finance:
		s = c.Finance
	case record.Health:
		s = c.Health
	default:
		return Domain{}, fmt.Errorf("no config for domain %q", d)
	}
	s.Model = c.resolve(s.Model)
	s.Encoders = c.resolve(s.Encoders)
	s.Dataset = c.resolve(s.Dataset)
	return s, nil
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Load reads the config file at path. The format follows the extension:
// .toml, .json, otherwise YAML. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(b), c); err != nil {
			return nil, fmt.Errorf("decode TOML %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("decode JSON %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("decode YAML %s: %w", path, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("error resolving config dir of %s: %w", path, err)
	}
	c.dir = abs

	slog.Debug("config loaded", "path", path)
	return c, nil
}

// Save writes c as YAML into dirPath.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, FileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create dir %s: %w", dirPath, err)
	}

	path := filepath.Join(dirPath, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return Load(path)
}

// GetOrCreateHomeDir returns the app directory under the user home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
