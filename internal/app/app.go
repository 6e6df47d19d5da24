package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/evalsweep/internal/config"
	"github.com/vk/evalsweep/internal/ctxlog"
	"github.com/vk/evalsweep/internal/scheduler"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	model     *config.Model
	submitter scheduler.Submitter
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded,
// validated sweep model. An optional submitter overrides the sbatch-backed
// default; tests inject fakes through it.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, submitter ...scheduler.Submitter) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all sweep definitions into the format-agnostic model first.
	model, err := loader.Load(ctx, appConfig.SweepPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Sweep definitions loaded and translated into unified model.")

	sub := scheduler.Submitter(scheduler.NewSbatch(appConfig.SbatchBin, appConfig.GeneratedDir))
	if len(submitter) > 0 && submitter[0] != nil {
		sub = submitter[0]
	}

	return &App{
		outW:      outW,
		logger:    logger,
		config:    appConfig,
		model:     model,
		submitter: sub,
	}
}

// Model returns the loaded sweep model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
