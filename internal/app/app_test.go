package app_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evalsweep/internal/app"
	"github.com/vk/evalsweep/internal/testutil"
)

// The integration fixtures below exercise the whole pipeline: HCL loading,
// grid expansion, filesystem decisions, and submission via the fake
// submitter, all rooted in the harness temp dir.

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	res := testutil.RunSweep(t, map[string]string{
		"sweeps/main.hcl": `
sweep "rm_bt" {
  learning_rates      = ["1e-6", "2e-6"]
  checkpoints         = [500]
  checkpoint_template = "{root}/ckpt/rm_bt_lr{lr}/checkpoint-{step}"
  results_dir         = "{root}/results"
  env                 = "rewardbench"
}
`,
		// lr 1e-6 already has a result; lr 2e-6 has only a checkpoint.
		"ckpt/rm_bt_lr1e-6/checkpoint-500/":        "",
		"results/rm_bt_lr1e-6/checkpoint-500.json": "{}",
		"ckpt/rm_bt_lr2e-6/checkpoint-500/":        "",
	})
	require.NoError(t, res.Err)

	jobs := res.Submitter.Jobs()
	require.Len(t, jobs, 1)
	require.Equal(t, filepath.Join(res.TmpDir, "ckpt", "rm_bt_lr2e-6", "checkpoint-500"), jobs[0].ModelPath)
	require.Equal(t, "bt", jobs[0].Mode)
	require.Contains(t, res.LogOutput, "Result already exists")
}

func TestApp_MissingCheckpointIsLoggedSkip(t *testing.T) {
	t.Parallel()

	res := testutil.RunSweep(t, map[string]string{
		"sweeps/main.hcl": `
sweep "rm_bt" {
  learning_rates      = ["1e-6"]
  checkpoints         = [500]
  checkpoint_template = "{root}/ckpt/rm_bt_lr{lr}/checkpoint-{step}"
  results_dir         = "{root}/results"
}
`,
	})
	require.NoError(t, res.Err)
	require.Empty(t, res.Submitter.Jobs())
	require.Contains(t, res.LogOutput, "does not exist")
}

func TestApp_StartupPanicsOnInvalidConfig(t *testing.T) {
	t.Parallel()

	res := testutil.RunSweep(t, map[string]string{
		"sweeps/main.hcl": `
sweep "rm_bt" {
  learning_rates      = ["1e-6"]
  checkpoints         = [500]
  checkpoint_template = "{root}/ckpt/checkpoint-{step}"
  results_dir         = "{root}/results"
}
`,
	})
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "application startup panicked")
	require.Contains(t, res.Err.Error(), "checkpoint_template")
}

func TestApp_DuplicateGridPointsNeverReachSubmission(t *testing.T) {
	t.Parallel()

	// A sweep listing the same learning rate twice would otherwise submit
	// the same checkpoint once per occurrence; it is rejected at startup
	// before any submission can happen.
	res := testutil.RunSweep(t, map[string]string{
		"sweeps/main.hcl": `
sweep "rm_bt" {
  learning_rates      = ["1e-6", "1e-6"]
  checkpoints         = [500]
  checkpoint_template = "{root}/ckpt/rm_bt_lr{lr}/checkpoint-{step}"
  results_dir         = "{root}/results"
}
`,
		"ckpt/rm_bt_lr1e-6/checkpoint-500/": "",
	})
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), `duplicate learning rate "1e-6"`)
	require.Empty(t, res.Submitter.Jobs())
}

func TestApp_DryRunSubmitsNothing(t *testing.T) {
	t.Parallel()

	res := testutil.RunSweep(t, map[string]string{
		"sweeps/main.hcl": `
sweep "rm_bt" {
  learning_rates      = ["1e-6"]
  checkpoints         = [500]
  checkpoint_template = "{root}/ckpt/rm_bt_lr{lr}/checkpoint-{step}"
  results_dir         = "{root}/results"
}
`,
		"ckpt/rm_bt_lr1e-6/checkpoint-500/": "",
	}, func(cfg *app.Config) {
		cfg.DryRun = true
	})
	require.NoError(t, res.Err)
	require.Empty(t, res.Submitter.Jobs())
	require.Contains(t, res.LogOutput, "would submit")
}
