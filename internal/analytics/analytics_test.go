package analytics

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncuphq/syncup-analytics/internal/domain"
	"github.com/syncuphq/syncup-analytics/internal/simulate"
)

// testEngine loads the canonical 2000-user seed-42 dataset.
func testEngine(t *testing.T) *Engine {
	t.Helper()

	data := simulate.Run(rand.New(rand.NewSource(42)), simulate.DefaultConfig())
	engine, err := NewEngine(context.Background(), data.Users, data.Events)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

// bigEngine loads a larger population over a longer window, for the
// directional checks: the extra month keeps retention checkpoints clear
// of the window-end cutoff, and the population size keeps sampling noise
// well under the injected probability gaps.
func bigEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := simulate.Config{
		NumUsers:    10000,
		WindowStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
	data := simulate.Run(rand.New(rand.NewSource(42)), cfg)
	engine, err := NewEngine(context.Background(), data.Users, data.Events)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func emptyEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := NewEngine(context.Background(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestFunnel_StepOneIsEveryone(t *testing.T) {
	engine := testEngine(t)

	funnel, err := engine.Funnel(context.Background())
	require.NoError(t, err)
	require.Len(t, funnel.Steps, 5)

	first := funnel.Steps[0]
	assert.Equal(t, int64(2000), first.Users)
	require.NotNil(t, first.ConversionRate)
	assert.Equal(t, 100.0, *first.ConversionRate)
}

func TestFunnel_StepsAreMonotonic(t *testing.T) {
	engine := testEngine(t)

	funnel, err := engine.Funnel(context.Background())
	require.NoError(t, err)

	for i := 1; i < len(funnel.Steps); i++ {
		assert.LessOrEqual(t, funnel.Steps[i].Users, funnel.Steps[i-1].Users,
			"funnel step %d gained users over its prerequisite", i+1)
	}
	require.NotNil(t, funnel.BiggestDropOff)
	// The invite gate is designed as the biggest leak.
	assert.Equal(t, "created_project", funnel.BiggestDropOff.Event)
}

func TestFunnel_EmptyTable(t *testing.T) {
	engine := emptyEngine(t)

	funnel, err := engine.Funnel(context.Background())
	require.NoError(t, err)

	for _, step := range funnel.Steps {
		assert.Zero(t, step.Users)
		assert.Nil(t, step.ConversionRate, "empty table must yield undefined rates")
	}
	assert.Nil(t, funnel.BiggestDropOff)
}

func TestABTest_GroupBConvertsBetter(t *testing.T) {
	engine := bigEngine(t)

	abtest, err := engine.ABTest(context.Background())
	require.NoError(t, err)

	require.NotNil(t, abtest.GroupA.ConversionRate)
	require.NotNil(t, abtest.GroupB.ConversionRate)
	// Directional: the generator gives B a 0.35 vs 0.25 upgrade gate.
	assert.Greater(t, *abtest.GroupB.ConversionRate, *abtest.GroupA.ConversionRate)

	require.NotNil(t, abtest.PValue)
	assert.Greater(t, *abtest.PValue, 0.0)
	assert.LessOrEqual(t, *abtest.PValue, 1.0)
	require.NotNil(t, abtest.LiftPercent)
	assert.Greater(t, *abtest.LiftPercent, 0.0)
}

func TestABTest_EmptyTable(t *testing.T) {
	engine := emptyEngine(t)

	abtest, err := engine.ABTest(context.Background())
	require.NoError(t, err)

	assert.Nil(t, abtest.GroupA.ConversionRate)
	assert.Nil(t, abtest.GroupB.ConversionRate)
	assert.Nil(t, abtest.ChiSquare)
	assert.Nil(t, abtest.PValue)
	assert.False(t, abtest.Significant)
}

func TestCohorts_Shape(t *testing.T) {
	engine := testEngine(t)

	cohorts, err := engine.Cohorts(context.Background())
	require.NoError(t, err)
	require.Len(t, cohorts, 2)

	jan, feb := cohorts[0], cohorts[1]
	assert.Equal(t, "2024-01", jan.Cohort)
	assert.Equal(t, "2024-02", feb.Cohort)
	assert.Equal(t, "Jan 2024", jan.Label)
	assert.Equal(t, "Feb 2024", feb.Label)
	assert.Equal(t, int64(2000), jan.Size+feb.Size)
	for i := range jan.Rates {
		require.NotNil(t, jan.Rates[i])
		assert.LessOrEqual(t, *jan.Rates[i], 100.0)
	}
}

func TestCohorts_PostLaunchRetainsBetter(t *testing.T) {
	engine := bigEngine(t)

	cohorts, err := engine.Cohorts(context.Background())
	require.NoError(t, err)
	require.Len(t, cohorts, 3)

	jan, feb := cohorts[0], cohorts[1]
	assert.Equal(t, "2024-01", jan.Cohort)
	assert.Equal(t, "2024-02", feb.Cohort)

	require.NotNil(t, jan.Rates[1])
	require.NotNil(t, feb.Rates[1])
	// Directional: day-7 gate is 0.40 for post-launch cohorts vs 0.30
	// for Jan. Feb checkpoints all land inside the window here, so the
	// measured gap tracks the injected one.
	assert.Greater(t, *feb.Rates[1], *jan.Rates[1])
}

func TestCohorts_EmptyTable(t *testing.T) {
	engine := emptyEngine(t)

	cohorts, err := engine.Cohorts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cohorts)
}

func TestOverview(t *testing.T) {
	engine := testEngine(t)

	o, err := engine.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2000), o.TotalUsers)
	assert.Greater(t, o.TotalEvents, o.TotalUsers, "every user has at least a sign-up event")
	assert.Greater(t, o.Activated, int64(0))
	assert.GreaterOrEqual(t, o.Activated, o.Invited)
	require.NotNil(t, o.ActivationRate)
	assert.InDelta(t, 75, *o.ActivationRate, 5)
	assert.NotEmpty(t, o.DailySignups)
}

func TestOverview_EmptyTable(t *testing.T) {
	engine := emptyEngine(t)

	o, err := engine.Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, o.TotalUsers)
	assert.Nil(t, o.ActivationRate)
	assert.Nil(t, o.ConversionRate)
}

func TestUsers_Filters(t *testing.T) {
	engine := testEngine(t)
	ctx := context.Background()

	all, err := engine.Users(ctx, UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2000)

	paid, err := engine.Users(ctx, UserFilter{Plan: string(domain.PlanPaid)})
	require.NoError(t, err)
	assert.NotEmpty(t, paid)
	assert.Less(t, len(paid), len(all))
	for _, u := range paid {
		assert.Equal(t, "Paid", u.Plan)
	}

	jan, err := engine.Users(ctx, UserFilter{Month: "2024-01"})
	require.NoError(t, err)
	for _, u := range jan {
		assert.Equal(t, "2024-01", u.SignUpDate[:7])
	}

	id := 42
	one, err := engine.Users(ctx, UserFilter{UserID: &id})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, 42, one[0].UserID)
	assert.Greater(t, one[0].EventCount, int64(0))

	limited, err := engine.Users(ctx, UserFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, limited, 10)
}

func TestChiSquare2x2(t *testing.T) {
	// Identical arms carry no signal.
	chi2, p, ok := chiSquare2x2(30, 70, 30, 70)
	require.True(t, ok)
	assert.Zero(t, chi2)
	assert.Equal(t, 1.0, p)

	// A large gap is significant.
	chi2, p, ok = chiSquare2x2(10, 90, 50, 50)
	require.True(t, ok)
	assert.Greater(t, chi2, 3.84)
	assert.Less(t, p, 0.05)

	// Degenerate tables are not testable.
	_, _, ok = chiSquare2x2(0, 0, 0, 0)
	assert.False(t, ok)
	_, _, ok = chiSquare2x2(0, 10, 0, 10)
	assert.False(t, ok)
}
