package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kavach/whitebox/pkg/encoder"
	"github.com/kavach/whitebox/pkg/model"
	"gopkg.in/yaml.v3"
)

// Artifact kinds.
const (
	KindModel    = "model"
	KindEncoders = "encoders"
)

// ErrMissing is the sentinel for artifacts that cannot be located.
var ErrMissing = errors.New("artifact missing")

// MissingError names the artifact that could not be found.
type MissingError struct {
	Kind string
	Path string
}

func (e *MissingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s artifact not configured", e.Kind)
	}
	return fmt.Sprintf("%s artifact not found: %s", e.Kind, e.Path)
}

func (e *MissingError) Unwrap() error {
	return ErrMissing
}

// LoadModel reads and validates an additive model artifact.
func LoadModel(path string) (*model.Additive, error) {
	var m model.Additive
	if err := load(KindModel, path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	slog.Debug("model loaded", "path", path, "kind", m.Kind, "terms", len(m.Shapes))
	return &m, nil
}

// LoadEncoders reads an encoder artifact mapping each categorical field
// to its ordered class list.
func LoadEncoders(path string) (encoder.Set, error) {
	var classes map[string][]string
	if err := load(KindEncoders, path, &classes); err != nil {
		return nil, err
	}
	s, err := encoder.NewSet(classes)
	if err != nil {
		return nil, fmt.Errorf("invalid encoders %s: %w", path, err)
	}
	slog.Debug("encoders loaded", "path", path, "fields", len(s))
	return s, nil
}

func load(kind, path string, v any) error {
	if path == "" {
		return &MissingError{Kind: kind}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &MissingError{Kind: kind, Path: path}
		}
		return fmt.Errorf("reading %s artifact %s: %w", kind, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		d := json.NewDecoder(bytes.NewReader(b))
		d.DisallowUnknownFields()
		err = d.Decode(v)
	case ".yaml", ".yml":
		d := yaml.NewDecoder(bytes.NewReader(b))
		d.KnownFields(true)
		err = d.Decode(v)
	default:
		return fmt.Errorf("unsupported %s artifact format: %s", kind, path)
	}
	if err != nil {
		return fmt.Errorf("decoding %s artifact %s: %w", kind, path, err)
	}
	return nil
}
