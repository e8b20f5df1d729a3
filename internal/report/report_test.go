package report

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncuphq/syncup-analytics/internal/analytics"
	"github.com/syncuphq/syncup-analytics/internal/simulate"
)

func testReport(t *testing.T) *Report {
	t.Helper()

	// A larger population keeps the directional chart assertions clear
	// of sampling noise.
	cfg := simulate.DefaultConfig()
	cfg.NumUsers = 10000
	data := simulate.Run(rand.New(rand.NewSource(42)), cfg)
	engine, err := analytics.NewEngine(context.Background(), data.Users, data.Events)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	rep, err := Build(context.Background(), engine)
	require.NoError(t, err)
	return rep
}

func TestPrint(t *testing.T) {
	rep := testReport(t)

	var out strings.Builder
	rep.Print(&out)
	text := out.String()

	assert.Contains(t, text, "PHASE 1: FUNNEL ANALYSIS")
	assert.Contains(t, text, "PHASE 2: A/B TEST")
	assert.Contains(t, text, "PHASE 3: COHORT RETENTION")
	assert.Contains(t, text, "Step 1: Signed Up")
	assert.Contains(t, text, "Biggest drop-off")
	assert.Contains(t, text, "Jan 2024")
	assert.Contains(t, text, "Feb 2024")
}

func TestFunnelChartConfig(t *testing.T) {
	rep := testReport(t)

	cfg := funnelChartConfig(rep.Funnel)
	assert.Equal(t, "horizontalBar", cfg.Type)
	require.Len(t, cfg.Data.Labels, 5)
	require.Len(t, cfg.Data.Datasets, 1)
	assert.Equal(t, float64(10000), cfg.Data.Datasets[0].Data[0])

	// Must serialize into a valid quickchart payload.
	payload, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"type":"horizontalBar"`)
}

func TestABTestChartConfig(t *testing.T) {
	rep := testReport(t)

	cfg := abTestChartConfig(rep.ABTest)
	assert.Equal(t, "bar", cfg.Type)
	require.Len(t, cfg.Data.Datasets, 1)
	require.Len(t, cfg.Data.Datasets[0].Data, 2)
	assert.Greater(t, cfg.Data.Datasets[0].Data[1], cfg.Data.Datasets[0].Data[0],
		"group B bar must be taller")
}

func TestRetentionChartConfig(t *testing.T) {
	rep := testReport(t)

	cfg := retentionChartConfig(rep.Cohorts)
	assert.Equal(t, "line", cfg.Type)
	assert.Equal(t, []string{"Day 1", "Day 7", "Day 14", "Day 30"}, cfg.Data.Labels)
	require.Len(t, cfg.Data.Datasets, 2)
	assert.Equal(t, "Jan 2024", cfg.Data.Datasets[0].Label)
	assert.Equal(t, "Feb 2024", cfg.Data.Datasets[1].Label)
}
