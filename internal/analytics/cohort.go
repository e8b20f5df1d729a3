package analytics

import (
	"context"
	"fmt"
	"time"
)

// RetentionDays are the fixed checkpoints sampled after sign-up.
var RetentionDays = [4]int{1, 7, 14, 30}

// CohortRetention is one sign-up-month cohort with its retention rate
// at each checkpoint, relative to the full cohort size.
type CohortRetention struct {
	Cohort string   `json:"cohort"` // YYYY-MM
	Label  string   `json:"label"`  // e.g. "Jan 2024"
	Size   int64    `json:"size"`
	Hits   [4]int64 `json:"hits"`

	// Rates[i] is nil when the cohort is empty.
	Rates [4]*float64 `json:"rates"`
}

// Cohorts groups users by sign-up month and measures, per retention
// checkpoint, the share whose used_feature_X event landed exactly that
// many days after sign-up.
func (e *Engine) Cohorts(ctx context.Context) ([]CohortRetention, error) {
	const query = `
WITH feature_days AS (
	SELECT
		u.user_id,
		strftime('%Y-%m', u.sign_up_date) AS cohort,
		CAST(julianday(date(e.event_timestamp)) - julianday(u.sign_up_date) AS INTEGER) AS days_since_signup
	FROM users u
	LEFT JOIN events e
		ON e.user_id = u.user_id AND e.event_name = 'used_feature_X'
),
retention AS (
	SELECT
		cohort,
		user_id,
		MAX(CASE WHEN days_since_signup = 1 THEN 1 ELSE 0 END)  AS day_1,
		MAX(CASE WHEN days_since_signup = 7 THEN 1 ELSE 0 END)  AS day_7,
		MAX(CASE WHEN days_since_signup = 14 THEN 1 ELSE 0 END) AS day_14,
		MAX(CASE WHEN days_since_signup = 30 THEN 1 ELSE 0 END) AS day_30
	FROM feature_days
	GROUP BY cohort, user_id
)
SELECT cohort, COUNT(*), SUM(day_1), SUM(day_7), SUM(day_14), SUM(day_30)
FROM retention
GROUP BY cohort
ORDER BY cohort`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cohort query: %w", err)
	}
	defer rows.Close()

	var cohorts []CohortRetention
	for rows.Next() {
		var c CohortRetention
		if err := rows.Scan(&c.Cohort, &c.Size, &c.Hits[0], &c.Hits[1], &c.Hits[2], &c.Hits[3]); err != nil {
			return nil, fmt.Errorf("cohort scan: %w", err)
		}
		c.Label = cohortLabel(c.Cohort)
		for i := range c.Hits {
			c.Rates[i] = rate(c.Hits[i], c.Size)
		}
		cohorts = append(cohorts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cohort rows: %w", err)
	}
	return cohorts, nil
}

func cohortLabel(yearMonth string) string {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return yearMonth
	}
	return t.Format("Jan 2006")
}
