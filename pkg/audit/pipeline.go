package audit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kavach/whitebox/pkg/encoder"
	"github.com/kavach/whitebox/pkg/explain"
	"github.com/kavach/whitebox/pkg/feature"
	"github.com/kavach/whitebox/pkg/metrics"
	"github.com/kavach/whitebox/pkg/model"
	"github.com/kavach/whitebox/pkg/record"
)

// Finance decisions.
const (
	Approved = "APPROVED"
	Rejected = "REJECTED"
)

// Report is the audit of one record.
type Report struct {
	ID          string              `json:"id" yaml:"id"`
	Domain      record.Domain       `json:"domain" yaml:"domain"`
	Decision    string              `json:"decision,omitempty" yaml:"decision,omitempty"`
	Confidence  string              `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Probability float64             `json:"probability,omitempty" yaml:"probability,omitempty"`
	Base        float64             `json:"base" yaml:"base"`
	Adjustment  float64             `json:"adjustment" yaml:"adjustment"`
	FinalValue  float64             `json:"final_value" yaml:"final_value"`
	Statements  []explain.Statement `json:"statements" yaml:"statements"`
	Suppressed  int                 `json:"suppressed" yaml:"suppressed"`
	Warnings    []encoder.Warning   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Terms       model.Explanation   `json:"terms" yaml:"terms"`
}

// Lines returns the rendered statements in model order.
func (r *Report) Lines() []string {
	lines := make([]string, len(r.Statements))
	for i, s := range r.Statements {
		lines[i] = s.String()
	}
	return lines
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNarrator sets the narrative generator.
func WithNarrator(n *explain.Narrator) Option {
	return func(p *Pipeline) {
		p.narrator = n
	}
}

// WithLogger sets the logger; records are grouped by domain.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithValidator sets the input schema validator.
func WithValidator(v *record.Validator) Option {
	return func(p *Pipeline) {
		p.validator = v
	}
}

// Pipeline audits records of one domain against a loaded model. It
// holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	domain    record.Domain
	model     any
	predictor model.Predictor
	proba     model.ProbaPredictor
	explainer model.LocalExplainer
	encoders  encoder.Set
	narrator  *explain.Narrator
	validator *record.Validator
	logger    *slog.Logger
}

// NewPipeline checks m offers the capabilities the domain needs:
// classification for finance, regression for health.
func NewPipeline(d record.Domain, m any, encoders encoder.Set, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		domain:   d,
		encoders: encoders,
	}

	switch d {
	case record.Finance:
		c, err := model.NewClassifier(m)
		if err != nil {
			return nil, fmt.Errorf("%s model: %w", d, err)
		}
		p.model, p.predictor, p.proba, p.explainer = c, c, c, c
	case record.Health:
		r, err := model.NewRegressor(m)
		if err != nil {
			return nil, fmt.Errorf("%s model: %w", d, err)
		}
		p.model, p.predictor, p.explainer = r, r, r
	default:
		return nil, fmt.Errorf("unsupported domain %q", d)
	}

	for _, o := range opts {
		o(p)
	}

	if p.narrator == nil {
		p.narrator = explain.NewNarrator()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.WithGroup(d.String())
	if p.validator == nil {
		v, err := record.NewValidator()
		if err != nil {
			return nil, fmt.Errorf("creating validator: %w", err)
		}
		p.validator = v
	}

	return p, nil
}

// Domain returns the pipeline domain.
func (p *Pipeline) Domain() record.Domain {
	return p.domain
}

// Score is a prediction without narration.
type Score struct {
	Prediction float64
	Warnings   []encoder.Warning
}

// Score validates, engineers, encodes and predicts one record.
func (p *Pipeline) Score(rec record.Record) (*Score, error) {
	encoded, _, warnings, err := p.prepare(rec)
	if err != nil {
		return nil, err
	}
	v, err := p.predictor.Predict(encoded)
	if err != nil {
		return nil, fmt.Errorf("predicting %s record: %w", p.domain, err)
	}
	return &Score{Prediction: v, Warnings: warnings}, nil
}

func (p *Pipeline) prepare(rec record.Record) (encoded, engineered record.Record, warnings []encoder.Warning, err error) {
	if err := p.validator.Validate(p.domain, rec); err != nil {
		return nil, nil, nil, err
	}

	engineered, err = feature.Engineer(rec, p.domain)
	if err != nil {
		return nil, nil, nil, err
	}

	encoded, warnings = p.encoders.Apply(engineered)
	for _, w := range warnings {
		metrics.UnseenCategories.WithLabelValues(p.domain.String(), w.Field).Inc()
	}
	return encoded, engineered, warnings, nil
}

// Audit runs the full pipeline on one record and explains the result.
func (p *Pipeline) Audit(rec record.Record) (*Report, error) {
	start := time.Now()
	defer func() {
		metrics.AuditLatency.WithLabelValues(p.domain.String()).Observe(time.Since(start).Seconds())
	}()

	encoded, engineered, warnings, err := p.prepare(rec)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		p.logger.Warn("unseen category", "field", w.Field, "value", w.Value, "fallback", w.Fallback)
	}

	r := &Report{
		ID:       uuid.NewString(),
		Domain:   p.domain,
		Warnings: warnings,
	}

	pred, err := p.predictor.Predict(encoded)
	if err != nil {
		return nil, fmt.Errorf("predicting %s record: %w", p.domain, err)
	}
	r.FinalValue = pred

	if p.proba != nil {
		probs, err := p.proba.PredictProba(encoded)
		if err != nil {
			return nil, fmt.Errorf("predicting %s probabilities: %w", p.domain, err)
		}
		if len(probs) < 2 {
			return nil, fmt.Errorf("expected 2 class probabilities, got %d", len(probs))
		}
		r.Probability = probs[1]
		r.Confidence = fmt.Sprintf("%.2f%%", probs[1]*100)
		r.Decision = Rejected
		if pred == 1 {
			r.Decision = Approved
		}
	}

	exp, err := p.explainer.ExplainLocal(encoded)
	if err != nil {
		return nil, fmt.Errorf("explaining %s record: %w", p.domain, err)
	}
	r.Terms = exp

	d, err := explain.Decompose(p.model, exp)
	if err != nil {
		return nil, fmt.Errorf("decomposing %s prediction: %w", p.domain, err)
	}
	r.Base, r.Adjustment = d.Base, d.Adjustment
	p.checkReconciles(d, encoded)

	r.Statements = make([]explain.Statement, 0, len(exp))
	for _, t := range exp {
		s, ok := p.narrator.ExplainFeature(t.Name, t.Score, rawValue(rec, engineered, t.Name), p.domain)
		if !ok {
			r.Suppressed++
			continue
		}
		r.Statements = append(r.Statements, s)
	}

	metrics.Statements.WithLabelValues(p.domain.String(), metrics.StateRendered).Add(float64(len(r.Statements)))
	metrics.Statements.WithLabelValues(p.domain.String(), metrics.StateSuppressed).Add(float64(r.Suppressed))
	p.logger.Debug("record audited", "id", r.ID, "terms", exp.Names(), "statements", len(r.Statements), "suppressed", r.Suppressed)

	return r, nil
}

func (p *Pipeline) checkReconciles(d explain.Decomposition, encoded record.Record) {
	var m any = p.model
	if u, ok := m.(interface{ Model() any }); ok {
		m = u.Model()
	}
	rs, ok := m.(model.RawScorer)
	if !ok {
		return
	}
	raw, err := rs.PredictRaw(encoded)
	if err != nil {
		p.logger.Debug("raw score unavailable", "error", err)
		return
	}
	if !explain.Reconciles(d, raw, explain.DefaultTolerance) {
		p.logger.Warn("decomposition does not reconcile", "base", d.Base, "adjustment", d.Adjustment, "raw", raw)
	}
}

// rawValue prefers the value the user supplied, then the engineered
// value, otherwise nil which renders as N/A.
func rawValue(rec, engineered record.Record, name string) any {
	if rec.Has(name) {
		return rec[name]
	}
	if engineered.Has(name) {
		return engineered[name]
	}
	return nil
}
