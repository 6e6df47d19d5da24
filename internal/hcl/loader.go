package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/evalsweep/internal/config"
	"github.com/vk/evalsweep/internal/ctxlog"
	"github.com/vk/evalsweep/internal/fsutil"
)

// Loader implements the config.Loader interface for HCL files.
type Loader struct{}

// NewLoader is the constructor for an HCL Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers all .hcl files under the given paths, parses them, and
// translates every sweep block into the format-agnostic model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, path := range paths {
		filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to discover sweep files under %s: %w", path, err)
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl sweep files found in path", "path", path)
			continue
		}
		logger.Debug("Found HCL files to load", "files", filePaths)

		for _, filePath := range filePaths {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
			}

			var sc SweepConfig
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &sc); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode sweep file %s: %w", filePath, diags)
			}

			for _, s := range sc.Sweeps {
				sweep, err := translateSweep(ctx, s)
				if err != nil {
					return nil, fmt.Errorf("failed to translate sweep in %s: %w", filePath, err)
				}
				model.Sweeps = append(model.Sweeps, sweep)
			}
			logger.Debug("Successfully loaded definitions from HCL file", "file", filePath, "sweeps", len(sc.Sweeps))
		}
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep configuration: %w", err)
	}

	logger.Info("Sweep configuration loaded.", "sweeps", len(model.Sweeps))
	return model, nil
}
