package analytics

import (
	"context"
	"fmt"
	"strings"
)

// UserFilter narrows the raw-data listing. Zero values mean "no filter".
type UserFilter struct {
	Plan   string // "Free" or "Paid"
	Group  string // "A" or "B"
	Month  string // sign-up month, YYYY-MM
	UserID *int   // exact user-id lookup
	Limit  int    // 0 means no limit
}

// UserRow is one row of the filtered raw-data table, with the user's
// event count joined in.
type UserRow struct {
	UserID     int    `json:"user_id"`
	SignUpDate string `json:"sign_up_date"`
	Plan       string `json:"plan_type"`
	Group      string `json:"ab_test_group"`
	EventCount int64  `json:"event_count"`
}

// Users lists users matching the filter in user-id order.
func (e *Engine) Users(ctx context.Context, filter UserFilter) ([]UserRow, error) {
	var (
		where []string
		args  []any
	)
	if filter.Plan != "" {
		where = append(where, "u.plan_type = ?")
		args = append(args, filter.Plan)
	}
	if filter.Group != "" {
		where = append(where, "u.ab_test_group = ?")
		args = append(args, filter.Group)
	}
	if filter.Month != "" {
		where = append(where, "strftime('%Y-%m', u.sign_up_date) = ?")
		args = append(args, filter.Month)
	}
	if filter.UserID != nil {
		where = append(where, "u.user_id = ?")
		args = append(args, *filter.UserID)
	}

	query := `
SELECT u.user_id, u.sign_up_date, u.plan_type, u.ab_test_group, COUNT(e.event_id)
FROM users u
LEFT JOIN events e ON e.user_id = u.user_id`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nGROUP BY u.user_id, u.sign_up_date, u.plan_type, u.ab_test_group\nORDER BY u.user_id"
	if filter.Limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("users query: %w", err)
	}
	defer rows.Close()

	result := make([]UserRow, 0, 64)
	for rows.Next() {
		var r UserRow
		if err := rows.Scan(&r.UserID, &r.SignUpDate, &r.Plan, &r.Group, &r.EventCount); err != nil {
			return nil, fmt.Errorf("users scan: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
