package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SweepPath string // hcl file or directory of sweep definitions

	LogFormat    string
	LogLevel     string
	WorkerCount  int
	DryRun       bool
	GeneratedDir string
	SbatchBin    string
}

// NewConfig validates an App configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SweepPath == "" {
		return nil, errors.New("SweepPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
