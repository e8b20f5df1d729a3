package analytics

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

// FunnelStep is one ordered gate of the activation funnel.
type FunnelStep struct {
	Number         int       `json:"step"`
	Label          string    `json:"label"`
	Event          string    `json:"event"`
	Users          int64     `json:"users"`
	ConversionRate *float64  `json:"conversion_rate"` // vs signed_up, nil when no sign-ups
	DropOffRate    float64   `json:"drop_off_rate"`
}

// FunnelReport is the funnel aggregation plus the biggest drop-off.
//
// Drop-off attribution is order-dependent: each step's drop-off is the
// conversion lost to the next row, so the step order must match the
// actual journey order. An out-of-order vocabulary would silently
// mis-attribute the drop.
type FunnelReport struct {
	Steps          []FunnelStep `json:"steps"`
	BiggestDropOff *FunnelStep  `json:"biggest_drop_off,omitempty"`
}

var funnelLabels = map[domain.EventName]string{
	domain.EventSignedUp:        "Step 1: Signed Up",
	domain.EventCreatedProject:  "Step 2: Created Project",
	domain.EventInvitedTeammate: "Step 3: Invited Teammate",
	domain.EventViewedPricing:   "Step 4: Viewed Pricing",
	domain.EventUpgradedPlan:    "Step 5: Upgraded",
}

// Funnel counts, per step, the users who reached it at least once, with
// conversion measured against the signed-up count.
func (e *Engine) Funnel(ctx context.Context) (*FunnelReport, error) {
	const query = `
WITH user_events AS (
	SELECT
		user_id,
		MAX(CASE WHEN event_name = 'signed_up' THEN 1 ELSE 0 END)           AS signed_up,
		MAX(CASE WHEN event_name = 'created_project' THEN 1 ELSE 0 END)     AS created_project,
		MAX(CASE WHEN event_name = 'invited_teammate' THEN 1 ELSE 0 END)    AS invited_teammate,
		MAX(CASE WHEN event_name = 'viewed_pricing_page' THEN 1 ELSE 0 END) AS viewed_pricing,
		MAX(CASE WHEN event_name = 'upgraded_plan' THEN 1 ELSE 0 END)       AS upgraded
	FROM events
	GROUP BY user_id
)
SELECT
	COALESCE(SUM(signed_up), 0),
	COALESCE(SUM(created_project), 0),
	COALESCE(SUM(invited_teammate), 0),
	COALESCE(SUM(viewed_pricing), 0),
	COALESCE(SUM(upgraded), 0)
FROM user_events`

	var counts [5]int64
	err := e.db.QueryRowContext(ctx, query).Scan(&counts[0], &counts[1], &counts[2], &counts[3], &counts[4])
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("funnel query: %w", err)
	}

	signedUp := counts[0]
	report := &FunnelReport{Steps: make([]FunnelStep, 0, len(domain.FunnelSteps))}
	for i, event := range domain.FunnelSteps {
		report.Steps = append(report.Steps, FunnelStep{
			Number:         i + 1,
			Label:          funnelLabels[event],
			Event:          string(event),
			Users:          counts[i],
			ConversionRate: rate(counts[i], signedUp),
		})
	}

	// Shift-by-one drop-off over the fixed step order.
	for i := range report.Steps {
		if i+1 < len(report.Steps) {
			cur, next := report.Steps[i].ConversionRate, report.Steps[i+1].ConversionRate
			if cur != nil && next != nil {
				report.Steps[i].DropOffRate = *cur - *next
			}
		}
	}

	for i := range report.Steps {
		if report.BiggestDropOff == nil || report.Steps[i].DropOffRate > report.BiggestDropOff.DropOffRate {
			report.BiggestDropOff = &report.Steps[i]
		}
	}
	if signedUp == 0 {
		report.BiggestDropOff = nil
	}

	return report, nil
}
