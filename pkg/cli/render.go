package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kavach/whitebox/pkg/audit"
	"github.com/kavach/whitebox/pkg/data"
	"github.com/kavach/whitebox/pkg/explain"
	"github.com/kavach/whitebox/pkg/record"
)

const (
	reportTitle = "WHITE-BOX AI AUDIT REPORT"
	frameWidth  = 70
)

var frame = strings.Repeat("=", frameWidth)

// renderReport writes the audit outcomes as the white-box text report.
func renderReport(w io.Writer, outcomes map[record.Domain]audit.Outcome, currency string) error {
	var b strings.Builder

	fmt.Fprintln(&b, frame)
	fmt.Fprintf(&b, "%*s\n", (frameWidth+len(reportTitle))/2, reportTitle)
	fmt.Fprintln(&b, frame)

	failed := false
	for _, d := range record.Domains {
		o, ok := outcomes[d]
		if !ok {
			continue
		}
		if o.Report == nil {
			failed = true
		}
		switch d {
		case record.Finance:
			renderFinance(&b, o)
		case record.Health:
			renderHealth(&b, o, currency)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, frame)
	if failed {
		fmt.Fprintln(&b, "Audit Completed With Errors ❌")
	} else {
		fmt.Fprintln(&b, "Audit Completed Successfully ✅")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderFinance(b *strings.Builder, o audit.Outcome) {
	fmt.Fprintln(b, "\n[FINANCE DECISION]")
	if o.Report == nil {
		fmt.Fprintf(b, "Error      : %s\n", outcomeError(o))
		return
	}

	r := o.Report
	status := r.Decision + " ❌"
	if r.Decision == audit.Approved {
		status = r.Decision + " ✅"
	}
	fmt.Fprintf(b, "Status     : %s\n", status)
	fmt.Fprintf(b, "Confidence : %s\n", r.Confidence)

	fmt.Fprintln(b, "\nKey Approval Factors:")
	renderLines(b, r)
}

func renderHealth(b *strings.Builder, o audit.Outcome, currency string) {
	fmt.Fprintln(b, "\n[HEALTH INSURANCE ESTIMATE]")
	if o.Report == nil {
		fmt.Fprintf(b, "Error            : %s\n", outcomeError(o))
		return
	}

	r := o.Report
	fmt.Fprintf(b, "Base Premium     : %s\n", explain.ParseNumber(r.Base).Money(currency))
	fmt.Fprintf(b, "Risk Adjustment  : %s\n", explain.ParseNumber(r.Adjustment).Money(currency))
	fmt.Fprintf(b, "Final Premium    : %s\n", explain.ParseNumber(r.FinalValue).Money(currency))

	fmt.Fprintln(b, "\nKey Cost Drivers:")
	renderLines(b, r)
}

func renderLines(b *strings.Builder, r *audit.Report) {
	for _, l := range r.Lines() {
		fmt.Fprintln(b, l)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(b, "! %s\n", w.String())
	}
}

func outcomeError(o audit.Outcome) string {
	if o.Error != "" {
		return o.Error
	}
	if o.Err != nil {
		return o.Err.Error()
	}
	return "unknown error"
}

// renderBatch writes a batch audit summary.
func renderBatch(w io.Writer, r *audit.BatchReport) error {
	var b strings.Builder

	fmt.Fprintln(&b, frame)
	fmt.Fprintf(&b, "BATCH AUDIT: %s\n", strings.ToUpper(r.Domain.String()))
	fmt.Fprintln(&b, frame)
	fmt.Fprintf(&b, "Run        : %s\n", r.ID)
	fmt.Fprintf(&b, "Rows       : %d (hold-out %d, failed %d)\n", r.Rows, r.TestRows, r.Failed)
	fmt.Fprintf(&b, "Seed       : %d\n", r.Options.Seed)

	fmt.Fprintln(&b, "\nHold-out Metrics:")
	for _, k := range sortedKeys(r.Holdout) {
		fmt.Fprintf(&b, "   - %-20s %.4f\n", k, r.Holdout[k])
	}

	fmt.Fprintf(&b, "\nStability (%d folds):\n", len(r.Folds))
	for _, k := range sortedKeys(r.Stability) {
		s := r.Stability[k]
		fmt.Fprintf(&b, "   - %-20s %.4f (+/- %.4f)\n", k, s.Mean, s.Std)
	}

	if len(r.Drift) > 0 {
		fmt.Fprintf(&b, "\nUnseen Categories (%d):\n", r.Unseen)
		for _, d := range r.Drift {
			fmt.Fprintf(&b, "   - %s=%q -> %q x%d\n", d.Field, d.Value, d.Fallback, d.Count)
		}
	}
	fmt.Fprintln(&b, frame)

	_, err := io.WriteString(w, b.String())
	return err
}

func renderRuns(w io.Writer, runs []*data.BatchRun) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDOMAIN\tSTARTED\tROWS\tUNSEEN\tMETRICS")
	for _, r := range runs {
		parts := make([]string, 0, len(r.Metrics))
		for _, k := range sortedKeys(r.Metrics) {
			parts = append(parts, fmt.Sprintf("%s=%.4f", k, r.Metrics[k]))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", r.ID, r.Domain,
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Rows, r.Unseen, strings.Join(parts, " "))
	}
	return tw.Flush()
}

func renderDrift(w io.Writer, list []*data.DriftSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tFIELD\tVALUE\tFALLBACK\tCOUNT\tRUNS\tLAST SEEN")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			s.Domain, s.Field, s.Value, s.Fallback, s.Count, s.Runs, s.LastSeen)
	}
	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
