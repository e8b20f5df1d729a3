package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syncuphq/syncup-analytics/internal/config"
	"github.com/syncuphq/syncup-analytics/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive dashboard",
	Long: `Start the local dashboard server. Requires a generated dataset; run
` + "`syncup generate`" + ` first.

Examples:
  syncup serve               # default port 8501
  syncup serve --port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Data-existence precheck before the server comes up, so the
	// operator gets the corrective instruction instead of empty pages.
	engine, err := loadEngine(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer engine.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	server := web.NewServer(engine, log, cfg.Port)
	return server.Start(ctx)
}
