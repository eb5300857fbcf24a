package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/kavach/whitebox/pkg/record"
)

const (
	// ApprovedLabel is the positive finance outcome.
	ApprovedLabel = "approved"

	idColumn = "loan_id"
)

// Dataset is a labeled table of records.
type Dataset struct {
	Domain  record.Domain
	Target  string
	Columns []string
	Rows    []record.Record
	Labels  []float64
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Subset returns the rows and labels at idx.
func (d *Dataset) Subset(idx []int) ([]record.Record, []float64) {
	rows := make([]record.Record, len(idx))
	labels := make([]float64, len(idx))
	for i, j := range idx {
		rows[i] = d.Rows[j]
		labels[i] = d.Labels[j]
	}
	return rows, labels
}

// LoadCSV reads a labeled dataset from a CSV file.
func LoadCSV(path, target string, d record.Domain) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Read(f, target, d)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	slog.Debug("dataset loaded", "path", path, "rows", ds.Len(), "columns", len(ds.Columns))
	return ds, nil
}

// Read parses a labeled dataset. Header names are trimmed, numeric cells
// become floats, blank cells are missing and the id column is dropped.
func Read(r io.Reader, target string, d record.Domain) (*Dataset, error) {
	if target == "" {
		return nil, errors.New("target column required")
	}

	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	targetIdx := -1
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		if header[i] == target {
			targetIdx = i
		}
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("target column %q not found", target)
	}

	ds := &Dataset{Domain: d, Target: target}
	for i, h := range header {
		if i != targetIdx && h != idColumn {
			ds.Columns = append(ds.Columns, h)
		}
	}

	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		label, err := parseLabel(row[targetIdx], d)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := make(record.Record, len(ds.Columns))
		for i, h := range header {
			if i == targetIdx || h == idColumn {
				continue
			}
			rec[h] = parseCell(row[i])
		}

		ds.Rows = append(ds.Rows, rec)
		ds.Labels = append(ds.Labels, label)
	}

	if ds.Len() == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return ds, nil
}

func parseLabel(s string, d record.Domain) (float64, error) {
	s = strings.TrimSpace(s)
	if d == record.Finance {
		if strings.EqualFold(s, ApprovedLabel) {
			return 1, nil
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target value %q: %w", s, err)
	}
	return v, nil
}

func parseCell(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return v
	}
	return s
}
