package config

import (
	"fmt"
	"strings"
)

// Evaluation modes dispatched by the submitted job.
const (
	ModeBT   = "bt"
	ModeLRPO = "lrpo"
)

// Template placeholders that must appear in a sweep's checkpoint template.
const (
	PlaceholderLR   = "{lr}"
	PlaceholderStep = "{step}"
)

// Model is the unified, format-agnostic representation of the entire
// sweep configuration loaded from disk.
type Model struct {
	Sweeps []*Sweep
}

// Sweep describes one hyperparameter grid and where its checkpoints and
// results live on disk.
type Sweep struct {
	Name string

	// LearningRates are kept as strings so the scientific notation used in
	// checkpoint directory names ("1e-6") survives round-tripping verbatim.
	LearningRates []string
	Checkpoints   []int

	// CheckpointTemplate is a path template containing the {lr} and {step}
	// placeholders, e.g. "/ckpt/rm_bt_lr{lr}/checkpoint-{step}".
	CheckpointTemplate string

	// ResultsDir is the root under which result files mirror the checkpoint
	// layout with a .json suffix.
	ResultsDir string

	Mode    string
	Env     string
	Requeue bool

	Resources Resources
}

// Resources holds the scheduler directives requested for each submitted job.
type Resources struct {
	Time      string
	GPUs      int
	Partition string
	LogDir    string
}

// Validate checks the model for structural errors that would make every
// grid point of a sweep nonsensical.
func (m *Model) Validate() error {
	seen := make(map[string]bool, len(m.Sweeps))
	for _, s := range m.Sweeps {
		if err := s.validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate sweep name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

func (s *Sweep) validate() error {
	if s.Name == "" {
		return fmt.Errorf("sweep name must not be empty")
	}
	if len(s.LearningRates) == 0 {
		return fmt.Errorf("sweep %q: learning_rates must not be empty", s.Name)
	}
	// Duplicate list entries would expand into duplicate grid points, and a
	// duplicate point would be submitted once per occurrence.
	seenLR := make(map[string]bool, len(s.LearningRates))
	for _, lr := range s.LearningRates {
		if seenLR[lr] {
			return fmt.Errorf("sweep %q: duplicate learning rate %q", s.Name, lr)
		}
		seenLR[lr] = true
	}
	if len(s.Checkpoints) == 0 {
		return fmt.Errorf("sweep %q: checkpoints must not be empty", s.Name)
	}
	seenStep := make(map[int]bool, len(s.Checkpoints))
	for _, step := range s.Checkpoints {
		if seenStep[step] {
			return fmt.Errorf("sweep %q: duplicate checkpoint %d", s.Name, step)
		}
		seenStep[step] = true
	}
	if !strings.Contains(s.CheckpointTemplate, PlaceholderLR) || !strings.Contains(s.CheckpointTemplate, PlaceholderStep) {
		return fmt.Errorf("sweep %q: checkpoint_template must reference both %s and %s", s.Name, PlaceholderLR, PlaceholderStep)
	}
	if s.ResultsDir == "" {
		return fmt.Errorf("sweep %q: results_dir must not be empty", s.Name)
	}
	switch s.Mode {
	case ModeBT, ModeLRPO:
		// valid
	default:
		return fmt.Errorf("sweep %q: invalid mode %q: must be %q or %q", s.Name, s.Mode, ModeBT, ModeLRPO)
	}
	return nil
}
