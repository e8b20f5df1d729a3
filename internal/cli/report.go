package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syncuphq/syncup-analytics/internal/config"
	"github.com/syncuphq/syncup-analytics/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the analysis report and render charts",
	Long: `Run the funnel, A/B test and cohort retention analyses over the
generated dataset, print the report, and render chart images.

Examples:
  syncup report                      # report + charts into ./dashboard
  syncup report --no-charts          # text report only
  syncup report --charts-dir ./out`,
	RunE: runReport,
}

var (
	reportDataDir   string
	reportChartsDir string
	reportNoCharts  bool
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDataDir, "data-dir", "", "Data directory (default from config)")
	reportCmd.Flags().StringVar(&reportChartsDir, "charts-dir", "", "Chart output directory (default from config)")
	reportCmd.Flags().BoolVar(&reportNoCharts, "no-charts", false, "Skip chart rendering")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if reportDataDir != "" {
		cfg.DataDir = reportDataDir
	}
	if reportChartsDir != "" {
		cfg.ChartsDir = reportChartsDir
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	engine, err := loadEngine(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer engine.Close()

	rep, err := report.Build(ctx, engine)
	if err != nil {
		return err
	}
	rep.Print(os.Stdout)

	if reportNoCharts {
		return nil
	}
	if err := rep.WriteCharts(cfg.ChartsDir); err != nil {
		return err
	}
	log.Info("charts written", zap.String("dir", cfg.ChartsDir))
	return nil
}
