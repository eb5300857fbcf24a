package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kavach/whitebox/pkg/record"
	"gopkg.in/yaml.v3"
)

// InteractionSeparator joins the feature names of a pair term.
const InteractionSeparator = " & "

// Intercept is a base value stored either as a scalar or as a list.
type Intercept []float64

func (i *Intercept) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*i = Intercept{f}
		return nil
	}
	var list []float64
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("intercept must be a number or a list of numbers: %w", err)
	}
	*i = list
	return nil
}

func (i *Intercept) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var f float64
		if err := n.Decode(&f); err != nil {
			return fmt.Errorf("intercept: %w", err)
		}
		*i = Intercept{f}
		return nil
	}
	var list []float64
	if err := n.Decode(&list); err != nil {
		return fmt.Errorf("intercept must be a number or a list of numbers: %w", err)
	}
	*i = list
	return nil
}

// Shape is the learned contribution function of one feature or one
// feature pair. Each feature value is binned by its cut points; scores
// are laid out row-major over the bins.
type Shape struct {
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Features []string    `json:"features" yaml:"features"`
	Cuts     [][]float64 `json:"cuts" yaml:"cuts"`
	Scores   []float64   `json:"scores" yaml:"scores"`
	Missing  float64     `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Additive is a fitted generalized additive model with optional pair
// interactions.
type Additive struct {
	Name   string    `json:"name,omitempty" yaml:"name,omitempty"`
	Kind   Kind      `json:"kind" yaml:"kind"`
	Base   Intercept `json:"intercept" yaml:"intercept"`
	Shapes []Shape   `json:"terms" yaml:"terms"`
}

// Validate checks the model is internally consistent and fills in
// default term names.
func (a *Additive) Validate() error {
	if a.Kind != KindClassifier && a.Kind != KindRegressor {
		return fmt.Errorf("invalid model kind %q", a.Kind)
	}
	if len(a.Base) != 1 {
		return fmt.Errorf("intercept must hold exactly one value, got %d", len(a.Base))
	}

	for i := range a.Shapes {
		s := &a.Shapes[i]
		if len(s.Features) != 1 && len(s.Features) != 2 {
			return fmt.Errorf("term %d: expected 1 or 2 features, got %d", i, len(s.Features))
		}
		if len(s.Cuts) != len(s.Features) {
			return fmt.Errorf("term %d: expected %d cut lists, got %d", i, len(s.Features), len(s.Cuts))
		}
		size := 1
		for j, c := range s.Cuts {
			if !sort.Float64sAreSorted(c) {
				return fmt.Errorf("term %d: cuts of %s are not sorted", i, s.Features[j])
			}
			size *= len(c) + 1
		}
		if len(s.Scores) != size {
			return fmt.Errorf("term %d: expected %d scores, got %d", i, size, len(s.Scores))
		}
		if s.Name == "" {
			s.Name = strings.Join(s.Features, InteractionSeparator)
		}
	}

	return nil
}

// ModelKind returns the learning task.
func (a *Additive) ModelKind() Kind {
	return a.Kind
}

// Intercept returns the base value.
func (a *Additive) Intercept() []float64 {
	out := make([]float64, len(a.Base))
	copy(out, a.Base)
	return out
}

// Features returns the distinct input features the model reads, in
// first-use order.
func (a *Additive) Features() []string {
	seen := make(map[string]bool)
	var list []string
	for _, s := range a.Shapes {
		for _, f := range s.Features {
			if !seen[f] {
				seen[f] = true
				list = append(list, f)
			}
		}
	}
	return list
}

// ExplainLocal returns the contribution of every term in model order.
func (a *Additive) ExplainLocal(rec record.Record) (Explanation, error) {
	exp := make(Explanation, len(a.Shapes))
	for i, s := range a.Shapes {
		exp[i] = Term{Name: s.Name, Score: s.score(rec)}
	}
	return exp, nil
}

// PredictRaw returns intercept plus the sum of term scores.
func (a *Additive) PredictRaw(rec record.Record) (float64, error) {
	if len(a.Base) == 0 {
		return 0, &IncompatibleError{Capability: CapIntercept}
	}
	exp, err := a.ExplainLocal(rec)
	if err != nil {
		return 0, err
	}
	return a.Base[0] + exp.Sum(), nil
}

// Predict returns the class label (1 when the raw score is positive)
// for classifiers and the raw score for regressors.
func (a *Additive) Predict(rec record.Record) (float64, error) {
	raw, err := a.PredictRaw(rec)
	if err != nil {
		return 0, err
	}
	if a.Kind == KindClassifier {
		if raw > 0 {
			return 1, nil
		}
		return 0, nil
	}
	return raw, nil
}

// PredictProba returns [p0, p1] through the logistic link.
func (a *Additive) PredictProba(rec record.Record) ([]float64, error) {
	if a.Kind != KindClassifier {
		return nil, errors.New("predict_proba is only available for classifiers")
	}
	raw, err := a.PredictRaw(rec)
	if err != nil {
		return nil, err
	}
	p := Sigmoid(raw)
	return []float64{1 - p, p}, nil
}

// Sigmoid is the logistic function.
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func (s Shape) score(rec record.Record) float64 {
	idx := 0
	for i, f := range s.Features {
		v, ok := rec.Float(f)
		if !ok || math.IsNaN(v) {
			if len(s.Features) == 1 {
				return s.Missing
			}
			return 0
		}
		idx = idx*(len(s.Cuts[i])+1) + Bin(v, s.Cuts[i])
	}
	return s.Scores[idx]
}

// Bin returns the number of cut points less than or equal to v.
func Bin(v float64, cuts []float64) int {
	return sort.Search(len(cuts), func(i int) bool { return cuts[i] > v })
}
