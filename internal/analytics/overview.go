package analytics

import (
	"context"
	"fmt"
)

// DailyCount is one day of sign-up volume.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// Overview is the top-line summary shown on the dashboard landing page.
type Overview struct {
	TotalUsers  int64 `json:"total_users"`
	TotalEvents int64 `json:"total_events"`
	Activated   int64 `json:"activated"` // created a project
	Invited     int64 `json:"invited"`   // invited a teammate
	Converted   int64 `json:"converted"` // upgraded to paid

	ActivationRate *float64 `json:"activation_rate"`
	ConversionRate *float64 `json:"conversion_rate"`

	DailySignups []DailyCount `json:"daily_signups"`
}

// Overview computes dataset totals and the daily sign-up series.
func (e *Engine) Overview(ctx context.Context) (*Overview, error) {
	o := &Overview{}

	if err := e.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&o.TotalUsers); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := e.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&o.TotalEvents); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	distinct := func(event string) (int64, error) {
		var n int64
		err := e.db.QueryRowContext(ctx,
			"SELECT COUNT(DISTINCT user_id) FROM events WHERE event_name = ?", event).Scan(&n)
		return n, err
	}

	var err error
	if o.Activated, err = distinct("created_project"); err != nil {
		return nil, fmt.Errorf("count activated: %w", err)
	}
	if o.Invited, err = distinct("invited_teammate"); err != nil {
		return nil, fmt.Errorf("count invited: %w", err)
	}
	if o.Converted, err = distinct("upgraded_plan"); err != nil {
		return nil, fmt.Errorf("count converted: %w", err)
	}

	o.ActivationRate = rate(o.Activated, o.TotalUsers)
	o.ConversionRate = rate(o.Converted, o.TotalUsers)

	rows, err := e.db.QueryContext(ctx,
		"SELECT sign_up_date, COUNT(*) FROM users GROUP BY sign_up_date ORDER BY sign_up_date")
	if err != nil {
		return nil, fmt.Errorf("daily signups: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("daily signups scan: %w", err)
		}
		o.DailySignups = append(o.DailySignups, d)
	}
	return o, rows.Err()
}
