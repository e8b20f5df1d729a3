package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "syncup",
	Short: "Synthetic product analytics for SyncUp",
	Long: `syncup generates a synthetic user/event dataset for SyncUp, a fictional
freemium project-management SaaS, and analyzes it.

The dataset bakes in three recoverable signals: a funnel drop-off at the
teammate-invite step, a pricing-page A/B lift for group B, and better
retention for the post-launch cohort. The report and dashboard commands
surface exactly those patterns.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
