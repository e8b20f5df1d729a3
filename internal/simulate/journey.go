package simulate

import (
	"math/rand"
	"time"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

// Funnel branch probabilities. The nesting is deliberate: inviting a
// teammate is the "magic moment" that makes pricing views and upgrades
// far more likely, group B sees the redesigned pricing page, and the
// post-launch cohort retains better. Downstream analyses exist to
// recover exactly these gaps.
const (
	createProjectProb = 0.75
	inviteProb        = 0.25

	pricingAfterInviteProb = 0.60
	pricingNoInviteProb    = 0.10

	upgradeInvitedGroupBProb = 0.35
	upgradeInvitedGroupAProb = 0.25
	upgradeNoInviteProb      = 0.05
)

// Retention checkpoints sampled after sign-up, with per-checkpoint hit
// probabilities for the pre-launch and post-launch cohorts.
var (
	retentionDays      = [4]int{1, 7, 14, 30}
	retentionBaseProb  = [4]float64{0.70, 0.30, 0.20, 0.15}
	retentionBoostProb = [4]float64{0.80, 0.40, 0.28, 0.22}
)

// Path tags which funnel branch a user's journey took. Every reachable
// event combination is one Path plus the ViewedPricing/Upgraded flags.
type Path int

const (
	PathNoProject Path = iota
	PathProjectOnly
	PathProjectAndInvite
)

func (p Path) String() string {
	switch p {
	case PathNoProject:
		return "no_project"
	case PathProjectOnly:
		return "project_only"
	case PathProjectAndInvite:
		return "project_and_invite"
	}
	return "unknown"
}

// RetentionHit is one successful retention checkpoint.
type RetentionHit struct {
	Day int
	At  time.Time
}

// Journey is a user's fully resolved walk through the decision tree.
// Timestamps are only meaningful where the corresponding tag or flag
// says the stage was reached.
type Journey struct {
	User domain.User
	Path Path

	ProjectAt time.Time
	InviteAt  time.Time

	ViewedPricing bool
	PricingAt     time.Time

	Upgraded  bool
	UpgradeAt time.Time

	Retention []RetentionHit
}

// BuildJourney samples one user's journey. Stages are drawn in fixed
// order (project, invite, pricing, upgrade, then the four retention
// checkpoints) so that a seeded source reproduces the same journey.
func BuildJourney(rng *rand.Rand, user domain.User, cfg Config) Journey {
	j := Journey{User: user, Path: PathNoProject}

	if rng.Float64() < createProjectProb {
		j.ProjectAt = user.SignUpDate.Add(randMinutes(rng, 5, 120))

		if rng.Float64() < inviteProb {
			j.Path = PathProjectAndInvite
			j.InviteAt = j.ProjectAt.Add(randHours(rng, 1, 48))

			if rng.Float64() < pricingAfterInviteProb {
				j.ViewedPricing = true
				j.PricingAt = j.InviteAt.Add(randHours(rng, 2, 72))

				upgradeProb := upgradeInvitedGroupAProb
				if user.Group == domain.GroupB {
					upgradeProb = upgradeInvitedGroupBProb
				}
				if rng.Float64() < upgradeProb {
					j.Upgraded = true
					j.UpgradeAt = j.PricingAt.Add(randHours(rng, 1, 24))
				}
			}
		} else {
			j.Path = PathProjectOnly

			if rng.Float64() < pricingNoInviteProb {
				j.ViewedPricing = true
				j.PricingAt = j.ProjectAt.Add(randHours(rng, 2, 72))

				if rng.Float64() < upgradeNoInviteProb {
					j.Upgraded = true
					j.UpgradeAt = j.PricingAt.Add(randHours(rng, 1, 24))
				}
			}
		}
	}

	// Retention checkpoints are independent of the funnel branch.
	// Checkpoints whose timestamp would land past the window end are
	// silently dropped, not retried.
	boosted := launchMonth(user.SignUpDate, cfg.WindowStart)
	for i, day := range retentionDays {
		prob := retentionBaseProb[i]
		if boosted {
			prob = retentionBoostProb[i]
		}
		if rng.Float64() < prob {
			at := user.SignUpDate.AddDate(0, 0, day).Add(randHours(rng, 0, 23))
			if !at.After(cfg.WindowEnd) {
				j.Retention = append(j.Retention, RetentionHit{Day: day, At: at})
			}
		}
	}

	return j
}

// randMinutes draws a uniform whole-minute duration in [min, max].
func randMinutes(rng *rand.Rand, min, max int) time.Duration {
	return time.Duration(min+rng.Intn(max-min+1)) * time.Minute
}

// randHours draws a uniform whole-hour duration in [min, max].
func randHours(rng *rand.Rand, min, max int) time.Duration {
	return time.Duration(min+rng.Intn(max-min+1)) * time.Hour
}
