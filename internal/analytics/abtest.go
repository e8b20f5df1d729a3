package analytics

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

// GroupResult is one experiment arm, restricted to users who viewed the
// pricing page.
type GroupResult struct {
	Group          string   `json:"group"`
	Total          int64    `json:"total_users"`
	Conversions    int64    `json:"conversions"`
	ConversionRate *float64 `json:"conversion_rate"`
}

// ABTestReport compares pricing-page conversion between groups A and B,
// with a chi-squared independence test over the 2x2 contingency table.
type ABTestReport struct {
	GroupA GroupResult `json:"group_a"`
	GroupB GroupResult `json:"group_b"`

	// Test statistics are nil when the table is degenerate (an empty
	// arm or an all-zero margin).
	ChiSquare   *float64 `json:"chi_square"`
	PValue      *float64 `json:"p_value"`
	LiftPercent *float64 `json:"lift_percent"`
	Significant bool     `json:"significant"`
}

// ABTest measures conversion (upgraded_plan) among pricing-page viewers
// per experiment group.
func (e *Engine) ABTest(ctx context.Context) (*ABTestReport, error) {
	const query = `
WITH user_conversions AS (
	SELECT
		u.user_id,
		u.ab_test_group,
		MAX(CASE WHEN e.event_name = 'viewed_pricing_page' THEN 1 ELSE 0 END) AS viewed_pricing,
		MAX(CASE WHEN e.event_name = 'upgraded_plan' THEN 1 ELSE 0 END)       AS converted
	FROM users u
	LEFT JOIN events e ON u.user_id = e.user_id
	GROUP BY u.user_id, u.ab_test_group
)
SELECT ab_test_group, COUNT(*), COALESCE(SUM(converted), 0)
FROM user_conversions
WHERE viewed_pricing = 1
GROUP BY ab_test_group
ORDER BY ab_test_group`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ab test query: %w", err)
	}
	defer rows.Close()

	report := &ABTestReport{
		GroupA: GroupResult{Group: string(domain.GroupA)},
		GroupB: GroupResult{Group: string(domain.GroupB)},
	}
	for rows.Next() {
		var g GroupResult
		if err := rows.Scan(&g.Group, &g.Total, &g.Conversions); err != nil {
			return nil, fmt.Errorf("ab test scan: %w", err)
		}
		g.ConversionRate = rate(g.Conversions, g.Total)
		switch domain.ExperimentGroup(g.Group) {
		case domain.GroupA:
			report.GroupA = g
		case domain.GroupB:
			report.GroupB = g
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ab test rows: %w", err)
	}

	a, b := report.GroupA, report.GroupB
	if chi2, p, ok := chiSquare2x2(
		float64(a.Conversions), float64(a.Total-a.Conversions),
		float64(b.Conversions), float64(b.Total-b.Conversions),
	); ok {
		report.ChiSquare = &chi2
		report.PValue = &p
		report.Significant = p < 0.05
	}

	if a.ConversionRate != nil && b.ConversionRate != nil && *a.ConversionRate > 0 {
		lift := (*b.ConversionRate - *a.ConversionRate) / *a.ConversionRate * 100
		report.LiftPercent = &lift
	}

	return report, nil
}

// chiSquare2x2 runs Pearson's chi-squared test with Yates' continuity
// correction on the 2x2 table [[a,b],[c,d]], one degree of freedom.
// ok is false when any expected cell count is zero.
func chiSquare2x2(a, b, c, d float64) (chi2, p float64, ok bool) {
	n := a + b + c + d
	if n == 0 {
		return 0, 0, false
	}
	row1, row2 := a+b, c+d
	col1, col2 := a+c, b+d

	observed := [4]float64{a, b, c, d}
	expected := [4]float64{
		row1 * col1 / n,
		row1 * col2 / n,
		row2 * col1 / n,
		row2 * col2 / n,
	}

	for i, e := range expected {
		if e == 0 {
			return 0, 0, false
		}
		diff := math.Max(0, math.Abs(observed[i]-e)-0.5)
		chi2 += diff * diff / e
	}

	p = distuv.ChiSquared{K: 1}.Survival(chi2)
	return chi2, p, true
}
