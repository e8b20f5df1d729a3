package report

import (
	"context"
	"fmt"
	"io"

	"github.com/syncuphq/syncup-analytics/internal/analytics"
)

// Report bundles the three analyses for printing and chart rendering.
type Report struct {
	Overview *analytics.Overview
	Funnel   *analytics.FunnelReport
	ABTest   *analytics.ABTestReport
	Cohorts  []analytics.CohortRetention
}

// Build runs all aggregations against the engine.
func Build(ctx context.Context, engine *analytics.Engine) (*Report, error) {
	overview, err := engine.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	funnel, err := engine.Funnel(ctx)
	if err != nil {
		return nil, fmt.Errorf("funnel: %w", err)
	}
	abtest, err := engine.ABTest(ctx)
	if err != nil {
		return nil, fmt.Errorf("ab test: %w", err)
	}
	cohorts, err := engine.Cohorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("cohorts: %w", err)
	}
	return &Report{Overview: overview, Funnel: funnel, ABTest: abtest, Cohorts: cohorts}, nil
}

// Print writes the human-readable analysis report.
func (r *Report) Print(w io.Writer) {
	rule := func() { fmt.Fprintln(w, "============================================================") }

	rule()
	fmt.Fprintln(w, "SYNCUP PRODUCT ANALYTICS - ANALYSIS REPORT")
	rule()
	fmt.Fprintf(w, "Users: %d  Events: %d\n", r.Overview.TotalUsers, r.Overview.TotalEvents)

	fmt.Fprintln(w, "\nPHASE 1: FUNNEL ANALYSIS")
	for _, step := range r.Funnel.Steps {
		fmt.Fprintf(w, "  %-26s %6d users (%s)\n", step.Label, step.Users, fmtRate(step.ConversionRate))
	}
	if d := r.Funnel.BiggestDropOff; d != nil {
		fmt.Fprintf(w, "  Biggest drop-off: %s (-%.1f pp to the next step)\n", d.Label, d.DropOffRate)
	}

	fmt.Fprintln(w, "\nPHASE 2: A/B TEST (pricing page, conversion among pricing viewers)")
	for _, g := range []analytics.GroupResult{r.ABTest.GroupA, r.ABTest.GroupB} {
		fmt.Fprintf(w, "  Group %s: %s (%d/%d)\n", g.Group, fmtRate(g.ConversionRate), g.Conversions, g.Total)
	}
	if r.ABTest.ChiSquare != nil && r.ABTest.PValue != nil {
		fmt.Fprintf(w, "  Chi-squared: %.4f  p-value: %.4f\n", *r.ABTest.ChiSquare, *r.ABTest.PValue)
	}
	if r.ABTest.LiftPercent != nil {
		fmt.Fprintf(w, "  Relative lift (B vs A): %.1f%%\n", *r.ABTest.LiftPercent)
	}
	if r.ABTest.Significant {
		fmt.Fprintln(w, "  RESULT: statistically significant (p < 0.05) - roll out the B pricing page")
	} else {
		fmt.Fprintln(w, "  RESULT: not statistically significant (p >= 0.05) - keep the test running")
	}

	fmt.Fprintln(w, "\nPHASE 3: COHORT RETENTION (used_feature_X)")
	for _, c := range r.Cohorts {
		fmt.Fprintf(w, "  %s (n=%d):", c.Label, c.Size)
		for i, day := range analytics.RetentionDays {
			fmt.Fprintf(w, "  day %d: %s", day, fmtRate(c.Rates[i]))
		}
		fmt.Fprintln(w)
	}
	if len(r.Cohorts) >= 2 {
		first, last := r.Cohorts[0], r.Cohorts[len(r.Cohorts)-1]
		if first.Rates[1] != nil && last.Rates[1] != nil {
			fmt.Fprintf(w, "  Day-7 retention change (%s vs %s): %+.1f pp\n",
				last.Label, first.Label, *last.Rates[1]-*first.Rates[1])
		}
	}
	rule()
}

func fmtRate(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *r)
}
