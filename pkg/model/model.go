package model

import (
	"errors"
	"fmt"

	"github.com/kavach/whitebox/pkg/record"
	"gonum.org/v1/gonum/floats"
)

// Capabilities a model may expose.
const (
	CapPredict      = "predict"
	CapPredictProba = "predict_proba"
	CapExplainLocal = "explain_local"
	CapIntercept    = "intercept"
)

// ErrIncompatible is the sentinel for models missing a capability.
var ErrIncompatible = errors.New("model incompatible")

// IncompatibleError names the missing capability.
type IncompatibleError struct {
	Capability string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("model incompatible: missing %s capability", e.Capability)
}

func (e *IncompatibleError) Unwrap() error {
	return ErrIncompatible
}

// Predictor returns a label (classifiers) or value (regressors).
type Predictor interface {
	Predict(rec record.Record) (float64, error)
}

// ProbaPredictor returns class probabilities [p0, p1].
type ProbaPredictor interface {
	PredictProba(rec record.Record) ([]float64, error)
}

// LocalExplainer returns per-term contributions for one record.
type LocalExplainer interface {
	ExplainLocal(rec record.Record) (Explanation, error)
}

// InterceptProvider exposes the base value. Two-class classifiers may
// return a single-element slice.
type InterceptProvider interface {
	Intercept() []float64
}

// RawScorer returns the score before any link function.
type RawScorer interface {
	PredictRaw(rec record.Record) (float64, error)
}

// Kinded is implemented by models that know whether they classify or
// regress.
type Kinded interface {
	ModelKind() Kind
}

// Kind is the learning task of a model.
type Kind string

const (
	KindClassifier Kind = "classifier"
	KindRegressor  Kind = "regressor"
)

// Term is one (feature, contribution) pair of an explanation.
type Term struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// Explanation is the ordered list of terms for one record.
type Explanation []Term

// Names returns the term names in order.
func (e Explanation) Names() []string {
	n := make([]string, len(e))
	for i, t := range e {
		n[i] = t.Name
	}
	return n
}

// Scores returns the term scores in order.
func (e Explanation) Scores() []float64 {
	s := make([]float64, len(e))
	for i, t := range e {
		s[i] = t.Score
	}
	return s
}

// Sum returns the total of all term scores.
func (e Explanation) Sum() float64 {
	if len(e) == 0 {
		return 0
	}
	return floats.Sum(e.Scores())
}
