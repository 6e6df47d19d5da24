package hcl

import "github.com/hashicorp/hcl/v2"

// Resources represents the content of the 'resources' block within a sweep.
type Resources struct {
	Time      string `hcl:"time,optional"`
	GPUs      int    `hcl:"gpus,optional"`
	Partition string `hcl:"partition,optional"`
	LogDir    string `hcl:"log_dir,optional"`
}

// Sweep represents a `sweep` block from a user's sweep file. It declares one
// hyperparameter grid over checkpoint directories.
type Sweep struct {
	Name string `hcl:"name,label"`

	// LearningRates is kept as a raw expression so users may write either
	// quoted strings ("1e-6") or bare HCL numbers; see translate.go.
	LearningRates      hcl.Expression `hcl:"learning_rates"`
	Checkpoints        []int          `hcl:"checkpoints"`
	CheckpointTemplate string         `hcl:"checkpoint_template"`
	ResultsDir         string         `hcl:"results_dir"`
	Mode               string         `hcl:"mode,optional"`
	Env                string         `hcl:"env,optional"`
	Requeue            bool           `hcl:"requeue,optional"`
	Resources          *Resources     `hcl:"resources,block"`
}

// SweepConfig represents the top-level structure of a sweep file, containing
// all sweep blocks defined in it.
type SweepConfig struct {
	Sweeps []*Sweep `hcl:"sweep,block"`
	Body   hcl.Body `hcl:",remain"`
}
