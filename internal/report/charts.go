package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	quickchartgo "github.com/henomis/quickchart-go"

	"github.com/syncuphq/syncup-analytics/internal/analytics"
)

// Chart file names, matching what the static dashboard page links to.
const (
	FunnelChartFile    = "funnel_chart.png"
	ABTestChartFile    = "ab_test_chart.png"
	RetentionChartFile = "retention_curve.png"
)

// Chart.js config structures, serialized into quickchart requests.
type chartConfig struct {
	Type    string         `json:"type"`
	Data    chartData      `json:"data"`
	Options map[string]any `json:"options,omitempty"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill"`
	LineTension     float32   `json:"lineTension"`
}

var stepColors = []string{"#2E86AB", "#A23B72", "#F18F01", "#C73E1D", "#6A994E"}

// WriteCharts renders the three analysis charts as PNG files under dir.
// Rendering goes through quickchart.io, so it needs network access.
func (r *Report) WriteCharts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create charts dir: %w", err)
	}

	charts := []struct {
		file   string
		config chartConfig
		w, h   int64
	}{
		{FunnelChartFile, funnelChartConfig(r.Funnel), 800, 450},
		{ABTestChartFile, abTestChartConfig(r.ABTest), 600, 450},
		{RetentionChartFile, retentionChartConfig(r.Cohorts), 800, 450},
	}

	for _, c := range charts {
		if err := writeChart(filepath.Join(dir, c.file), c.config, c.w, c.h); err != nil {
			return err
		}
	}
	return nil
}

func writeChart(path string, config chartConfig, width, height int64) error {
	payload, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal chart config: %w", err)
	}

	qc := quickchartgo.New()
	qc.Config = string(payload)
	qc.Width = width
	qc.Height = height
	qc.Version = "2.9.4"
	qc.BackgroundColor = "#ffffff"

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := qc.Write(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

func funnelChartConfig(funnel *analytics.FunnelReport) chartConfig {
	labels := make([]string, 0, len(funnel.Steps))
	counts := make([]float64, 0, len(funnel.Steps))
	for _, step := range funnel.Steps {
		labels = append(labels, step.Label)
		counts = append(counts, float64(step.Users))
	}
	return chartConfig{
		Type: "horizontalBar",
		Data: chartData{
			Labels: labels,
			Datasets: []chartDataset{{
				Label:           "Users",
				Data:            counts,
				BackgroundColor: stepColors,
			}},
		},
		Options: map[string]any{
			"title":  map[string]any{"display": true, "text": "SyncUp Activation Funnel"},
			"legend": map[string]any{"display": false},
		},
	}
}

func abTestChartConfig(ab *analytics.ABTestReport) chartConfig {
	value := func(r *float64) float64 {
		if r == nil {
			return 0
		}
		return *r
	}
	return chartConfig{
		Type: "bar",
		Data: chartData{
			Labels: []string{"Group A (Old Pricing)", "Group B (New Pricing)"},
			Datasets: []chartDataset{{
				Label:           "Conversion Rate (%)",
				Data:            []float64{value(ab.GroupA.ConversionRate), value(ab.GroupB.ConversionRate)},
				BackgroundColor: []string{"#95B8D1", "#6A994E"},
			}},
		},
		Options: map[string]any{
			"title":  map[string]any{"display": true, "text": "A/B Test: Pricing Page Conversion"},
			"legend": map[string]any{"display": false},
		},
	}
}

func retentionChartConfig(cohorts []analytics.CohortRetention) chartConfig {
	labels := make([]string, 0, len(analytics.RetentionDays))
	for _, day := range analytics.RetentionDays {
		labels = append(labels, fmt.Sprintf("Day %d", day))
	}

	lineColors := []string{"#E63946", "#06A77D", "#457B9D", "#F4A261"}
	datasets := make([]chartDataset, 0, len(cohorts))
	for i, c := range cohorts {
		data := make([]float64, len(c.Rates))
		for j, r := range c.Rates {
			if r != nil {
				data[j] = *r
			}
		}
		datasets = append(datasets, chartDataset{
			Label:       c.Label,
			Data:        data,
			BorderColor: lineColors[i%len(lineColors)],
			Fill:        false,
		})
	}

	return chartConfig{
		Type: "line",
		Data: chartData{Labels: labels, Datasets: datasets},
		Options: map[string]any{
			"title": map[string]any{"display": true, "text": "Cohort Retention Curve"},
		},
	}
}
