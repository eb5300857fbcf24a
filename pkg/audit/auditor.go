package audit

import (
	"fmt"
	"log/slog"

	"github.com/kavach/whitebox/pkg/artifact"
	"github.com/kavach/whitebox/pkg/metrics"
	"github.com/kavach/whitebox/pkg/record"
)

// Outcome is the result of auditing one domain: a report or the error
// that stopped that domain.
type Outcome struct {
	Report *Report `json:"report,omitempty" yaml:"report,omitempty"`
	Err    error   `json:"-" yaml:"-"`
	Error  string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// LoadPipeline loads the model and encoder artifacts of a domain and
// builds its pipeline.
func LoadPipeline(d record.Domain, modelPath, encodersPath string, opts ...Option) (*Pipeline, error) {
	m, err := artifact.LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s model: %w", d, err)
	}

	encoders, err := artifact.LoadEncoders(encodersPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoders: %w", d, err)
	}

	return NewPipeline(d, m, encoders, opts...)
}

// Auditor runs independent per-domain pipelines.
type Auditor struct {
	pipelines map[record.Domain]*Pipeline
	errs      map[record.Domain]error
}

// NewAuditor creates an auditor with no domains.
func NewAuditor() *Auditor {
	return &Auditor{
		pipelines: make(map[record.Domain]*Pipeline),
		errs:      make(map[record.Domain]error),
	}
}

// Set registers the pipeline of a domain, or the error that prevented
// building it. The error is reported whenever that domain is audited.
func (a *Auditor) Set(d record.Domain, p *Pipeline, err error) {
	if err != nil {
		slog.Error("pipeline unavailable", "domain", d, "error", err)
		delete(a.pipelines, d)
		a.errs[d] = err
		return
	}
	delete(a.errs, d)
	a.pipelines[d] = p
}

// Pipeline returns the pipeline of a domain.
func (a *Auditor) Pipeline(d record.Domain) (*Pipeline, error) {
	if err, ok := a.errs[d]; ok {
		return nil, err
	}
	p, ok := a.pipelines[d]
	if !ok {
		return nil, fmt.Errorf("no pipeline configured for %s", d)
	}
	return p, nil
}

// Run audits each input with its domain pipeline. A failure in one
// domain never stops the others.
func (a *Auditor) Run(inputs map[record.Domain]record.Record) map[record.Domain]Outcome {
	out := make(map[record.Domain]Outcome, len(inputs))

	for _, d := range record.Domains {
		rec, ok := inputs[d]
		if !ok {
			continue
		}

		o := a.audit(d, rec)
		label := metrics.OutcomeOK
		if o.Err != nil {
			label = metrics.OutcomeError
			o.Error = o.Err.Error()
			slog.Error("audit failed", "domain", d, "error", o.Err)
		}
		metrics.Audits.WithLabelValues(d.String(), label).Inc()
		out[d] = o
	}

	return out
}

func (a *Auditor) audit(d record.Domain, rec record.Record) Outcome {
	p, err := a.Pipeline(d)
	if err != nil {
		return Outcome{Err: err}
	}
	r, err := p.Audit(rec)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Report: r}
}
