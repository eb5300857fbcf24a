package model

import (
	"errors"
	"testing"

	"github.com/kavach/whitebox/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type predictOnly struct{}

func (predictOnly) Predict(record.Record) (float64, error) { return 1, nil }

type noIntercept struct{ predictOnly }

func (noIntercept) PredictProba(record.Record) ([]float64, error)   { return []float64{0.5, 0.5}, nil }
func (noIntercept) ExplainLocal(record.Record) (Explanation, error) { return nil, nil }

type complete struct{ noIntercept }

func (complete) Intercept() []float64 { return []float64{0.1} }

func TestExplanation(t *testing.T) {
	e := Explanation{{Name: "a", Score: 1.5}, {Name: "b", Score: -0.5}}
	assert.Equal(t, []string{"a", "b"}, e.Names())
	assert.Equal(t, []float64{1.5, -0.5}, e.Scores())
	assert.InDelta(t, 1.0, e.Sum(), 1e-12)
	assert.Zero(t, Explanation(nil).Sum())
}

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		name string
		m    any
		cap  string
	}{
		{"nothing", struct{}{}, CapPredict},
		{"predict only", predictOnly{}, CapPredictProba},
		{"no intercept", noIntercept{}, CapIntercept},
		{"regressor", &Additive{Kind: KindRegressor, Base: Intercept{1}}, CapPredictProba},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(tt.m)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIncompatible)
			var ie *IncompatibleError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.cap, ie.Capability)
			assert.Contains(t, err.Error(), tt.cap)
		})
	}

	c, err := NewClassifier(complete{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1}, c.Intercept())
	assert.Equal(t, complete{}, c.Model())
}

func TestNewRegressor(t *testing.T) {
	_, err := NewRegressor(predictOnly{})
	var ie *IncompatibleError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, CapExplainLocal, ie.Capability)

	_, err = NewRegressor(&Additive{Kind: KindClassifier, Base: Intercept{0}})
	assert.ErrorIs(t, err, ErrIncompatible)

	r, err := NewRegressor(complete{})
	require.NoError(t, err)
	assert.Equal(t, complete{}, r.Model())
}
