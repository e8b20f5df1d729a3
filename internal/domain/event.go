package domain

import "time"

// EventName is one of the fixed lifecycle event kinds.
type EventName string

const (
	EventSignedUp        EventName = "signed_up"
	EventCreatedProject  EventName = "created_project"
	EventInvitedTeammate EventName = "invited_teammate"
	EventViewedPricing   EventName = "viewed_pricing_page"
	EventUpgradedPlan    EventName = "upgraded_plan"
	EventUsedFeature     EventName = "used_feature_X"
)

// FunnelSteps is the activation funnel in order. The drop-off calculation
// in the analytics layer shifts conversion rates by one row, so this order
// must stay monotonic with the actual user journey.
var FunnelSteps = []EventName{
	EventSignedUp,
	EventCreatedProject,
	EventInvitedTeammate,
	EventViewedPricing,
	EventUpgradedPlan,
}

// Event is one row of the events table. Event IDs are monotonically
// increasing across a whole generation run; events are append-only.
type Event struct {
	ID        int
	UserID    int
	Timestamp time.Time
	Name      EventName
}

// Timestamp layouts used by the CSV tables, matching the exported
// users.csv/events.csv column formats.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
