package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/syncuphq/syncup-analytics/internal/analytics"
	"github.com/syncuphq/syncup-analytics/internal/config"
	"github.com/syncuphq/syncup-analytics/internal/dataset"
	"github.com/syncuphq/syncup-analytics/internal/logger"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Environment)
}

// loadEngine prechecks the data files, loads both tables and builds the
// in-memory analytics engine.
func loadEngine(ctx context.Context, dataDir string) (*analytics.Engine, error) {
	if err := dataset.Check(dataDir); err != nil {
		return nil, err
	}
	users, err := dataset.ReadUsers(dataDir)
	if err != nil {
		return nil, err
	}
	events, err := dataset.ReadEvents(dataDir)
	if err != nil {
		return nil, err
	}
	return analytics.NewEngine(ctx, users, events)
}
