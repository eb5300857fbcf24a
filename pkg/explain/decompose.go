package explain

import (
	"math"

	"github.com/kavach/whitebox/pkg/model"
)

// DefaultTolerance is the relative tolerance used to reconcile a
// decomposition with the model's raw score.
const DefaultTolerance = 1e-6

// Decomposition splits a prediction into the model's base value and the
// total adjustment contributed by all explanation terms.
type Decomposition struct {
	Base       float64 `json:"base" yaml:"base"`
	Adjustment float64 `json:"adjustment" yaml:"adjustment"`
}

// Total returns base plus adjustment.
func (d Decomposition) Total() float64 {
	return d.Base + d.Adjustment
}

// Decompose reads the intercept of m and sums the explanation scores.
// Models without a single intercept value are incompatible.
func Decompose(m any, exp model.Explanation) (Decomposition, error) {
	ip, ok := m.(model.InterceptProvider)
	if !ok {
		return Decomposition{}, &model.IncompatibleError{Capability: model.CapIntercept}
	}

	base := ip.Intercept()
	if len(base) != 1 {
		return Decomposition{}, &model.IncompatibleError{Capability: model.CapIntercept}
	}

	return Decomposition{
		Base:       base[0],
		Adjustment: exp.Sum(),
	}, nil
}

// Reconciles reports whether the decomposition reproduces raw within the
// relative tolerance tol.
func Reconciles(d Decomposition, raw, tol float64) bool {
	return math.Abs(d.Total()-raw) <= tol*math.Max(1, math.Abs(raw))
}
