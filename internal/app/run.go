package app

import (
	"context"
	"fmt"

	"github.com/vk/evalsweep/internal/ctxlog"
	"github.com/vk/evalsweep/internal/executor"
	"github.com/vk/evalsweep/internal/manifest"
	"github.com/vk/evalsweep/internal/sweep"
)

// Run executes the main application logic based on the loaded configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	points := sweep.ExpandAll(a.model)
	a.logger.Info("Sweep grid expanded.", "sweeps", len(a.model.Sweeps), "points", len(points))

	if len(points) == 0 {
		a.logger.Warn("No grid points found, nothing to do.")
		return nil
	}

	generatedDir := a.config.GeneratedDir
	if generatedDir == "" {
		generatedDir = "generated"
	}
	receipts := manifest.NewWriter(generatedDir)

	a.logger.Info("🚀 Starting sweep run...", "dryRun", a.config.DryRun)
	exec := executor.New(a.submitter, receipts, a.config.WorkerCount, a.config.DryRun)
	summary, err := exec.Run(ctx, points)
	if err != nil {
		return fmt.Errorf("sweep run failed: %w", err)
	}

	a.logger.Info("🏁 Sweep run finished.",
		"submitted", summary.Submitted,
		"alreadyDone", summary.AlreadyDone,
		"missingCheckpoint", summary.MissingCheckpoint,
		"failed", summary.Failed,
	)

	if summary.Failed > 0 {
		return fmt.Errorf("%d submission(s) failed", summary.Failed)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
