package model

// Classifier is a model checked for the classification contract.
type Classifier struct {
	Predictor
	ProbaPredictor
	LocalExplainer
	InterceptProvider
	m any
}

// NewClassifier verifies m can predict, predict_proba, explain_local and
// provide an intercept.
func NewClassifier(m any) (*Classifier, error) {
	c := &Classifier{m: m}
	var ok bool

	if c.Predictor, ok = m.(Predictor); !ok {
		return nil, &IncompatibleError{Capability: CapPredict}
	}
	if c.ProbaPredictor, ok = m.(ProbaPredictor); !ok {
		return nil, &IncompatibleError{Capability: CapPredictProba}
	}
	if k, ok := m.(Kinded); ok && k.ModelKind() != KindClassifier {
		return nil, &IncompatibleError{Capability: CapPredictProba}
	}
	if c.LocalExplainer, ok = m.(LocalExplainer); !ok {
		return nil, &IncompatibleError{Capability: CapExplainLocal}
	}
	if c.InterceptProvider, ok = m.(InterceptProvider); !ok {
		return nil, &IncompatibleError{Capability: CapIntercept}
	}

	return c, nil
}

// Model returns the wrapped model.
func (c *Classifier) Model() any {
	return c.m
}

// Regressor is a model checked for the regression contract.
type Regressor struct {
	Predictor
	LocalExplainer
	InterceptProvider
	m any
}

// NewRegressor verifies m can predict, explain_local and provide an
// intercept.
func NewRegressor(m any) (*Regressor, error) {
	r := &Regressor{m: m}
	var ok bool

	if r.Predictor, ok = m.(Predictor); !ok {
		return nil, &IncompatibleError{Capability: CapPredict}
	}
	if k, ok := m.(Kinded); ok && k.ModelKind() != KindRegressor {
		return nil, &IncompatibleError{Capability: CapPredict}
	}
	if r.LocalExplainer, ok = m.(LocalExplainer); !ok {
		return nil, &IncompatibleError{Capability: CapExplainLocal}
	}
	if r.InterceptProvider, ok = m.(InterceptProvider); !ok {
		return nil, &IncompatibleError{Capability: CapIntercept}
	}

	return r, nil
}

// Model returns the wrapped model.
func (r *Regressor) Model() any {
	return r.m
}
