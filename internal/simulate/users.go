package simulate

import (
	"math/rand"
	"time"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

const paidAtSignupProb = 0.05

// GenerateUsers produces exactly cfg.NumUsers users with sequential IDs
// starting at 1. Sign-up dates are uniform over [WindowStart, WindowEnd]
// inclusive, the A/B split is a fair coin, and a small fraction starts
// on the Paid plan.
//
// All randomness comes from rng; two calls with identically seeded
// sources yield identical populations.
func GenerateUsers(rng *rand.Rand, cfg Config) []domain.User {
	windowDays := int(cfg.WindowEnd.Sub(cfg.WindowStart).Hours() / 24)

	users := make([]domain.User, 0, cfg.NumUsers)
	for id := 1; id <= cfg.NumUsers; id++ {
		signUp := cfg.WindowStart.AddDate(0, 0, rng.Intn(windowDays+1))

		group := domain.GroupA
		if rng.Intn(2) == 1 {
			group = domain.GroupB
		}

		plan := domain.PlanFree
		if rng.Float64() < paidAtSignupProb {
			plan = domain.PlanPaid
		}

		users = append(users, domain.User{
			ID:         id,
			SignUpDate: signUp,
			Plan:       plan,
			Group:      group,
		})
	}
	return users
}

// launchMonth reports whether a sign-up date falls after the first
// calendar month of the window, i.e. after the Templates feature launch
// that the retention analysis is designed to surface.
func launchMonth(signUp, windowStart time.Time) bool {
	return signUp.Year() > windowStart.Year() || signUp.Month() != windowStart.Month()
}
