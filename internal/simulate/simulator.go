package simulate

import (
	"math/rand"
	"time"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

// Dataset is one complete generation run: the user population and every
// event their journeys produced.
type Dataset struct {
	Users  []domain.User
	Events []domain.Event
}

// Run generates the full dataset: users first, then one journey per user
// flattened into events. Event IDs are monotonic across the whole run,
// assigned in journey order (funnel stages, then retention checkpoints),
// matching the append order of the events table.
func Run(rng *rand.Rand, cfg Config) Dataset {
	users := GenerateUsers(rng, cfg)

	events := make([]domain.Event, 0, cfg.NumUsers*3)
	nextID := 1
	for _, user := range users {
		j := BuildJourney(rng, user, cfg)
		events = appendJourneyEvents(events, j, &nextID)
	}

	return Dataset{Users: users, Events: events}
}

func appendJourneyEvents(events []domain.Event, j Journey, nextID *int) []domain.Event {
	emit := func(name domain.EventName, at time.Time) {
		events = append(events, domain.Event{
			ID:        *nextID,
			UserID:    j.User.ID,
			Timestamp: at,
			Name:      name,
		})
		*nextID++
	}

	emit(domain.EventSignedUp, j.User.SignUpDate)

	if j.Path != PathNoProject {
		emit(domain.EventCreatedProject, j.ProjectAt)
	}
	if j.Path == PathProjectAndInvite {
		emit(domain.EventInvitedTeammate, j.InviteAt)
	}
	if j.ViewedPricing {
		emit(domain.EventViewedPricing, j.PricingAt)
	}
	if j.Upgraded {
		emit(domain.EventUpgradedPlan, j.UpgradeAt)
	}
	for _, hit := range j.Retention {
		emit(domain.EventUsedFeature, hit.At)
	}

	return events
}
