package domain

import "time"

// PlanType is the subscription tier a user is on. Assigned once at sign-up
// and only ever changed by an upgraded_plan event downstream.
type PlanType string

const (
	PlanFree PlanType = "Free"
	PlanPaid PlanType = "Paid"
)

// ExperimentGroup is the pricing-page A/B assignment.
type ExperimentGroup string

const (
	GroupA ExperimentGroup = "A"
	GroupB ExperimentGroup = "B"
)

// User is one generated SyncUp account. IDs are sequential starting at 1
// and users are never mutated after generation.
type User struct {
	ID         int
	SignUpDate time.Time
	Plan       PlanType
	Group      ExperimentGroup
}

// CohortKey returns the sign-up month in YYYY-MM form, the grouping key
// used by the retention analysis.
func (u User) CohortKey() string {
	return u.SignUpDate.Format("2006-01")
}
