package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testJob() *Job {
	return &Job{
		Name:      "rm_bt_lr1e-6_ckpt500",
		ModelPath: "/ckpt/rm_bt_lr1e-6/checkpoint-500",
		Mode:      "bt",
		Env:       "rewardbench",
		Time:      "04:00:00",
		GPUs:      1,
		Partition: "gpu",
		LogDir:    "slurm_logs",
	}
}

func TestRenderScript_BTMode(t *testing.T) {
	t.Parallel()

	script, err := RenderScript(testJob())
	require.NoError(t, err)

	require.Contains(t, script, "#!/bin/bash\n")
	require.Contains(t, script, "#SBATCH --job-name=rm_bt_lr1e-6_ckpt500\n")
	require.Contains(t, script, "#SBATCH --time=04:00:00\n")
	require.Contains(t, script, "#SBATCH --gres=gpu:1\n")
	require.Contains(t, script, "#SBATCH --partition=gpu\n")
	require.Contains(t, script, "#SBATCH --output=slurm_logs/rm_bt_lr1e-6_ckpt500.out\n")
	require.Contains(t, script, "source activate rewardbench\n")
	require.Contains(t, script, "python rewardbench_custom.py --model /ckpt/rm_bt_lr1e-6/checkpoint-500\n")
	require.NotContains(t, script, "--requeue")
	require.NotContains(t, script, "rewardbench_lrpo.py")
}

func TestRenderScript_LRPOMode(t *testing.T) {
	t.Parallel()

	job := testJob()
	job.Mode = "lrpo"
	script, err := RenderScript(job)
	require.NoError(t, err)

	require.Contains(t, script, "python rewardbench_lrpo.py --model /ckpt/rm_bt_lr1e-6/checkpoint-500\n")
	require.NotContains(t, script, "rewardbench_custom.py")
}

func TestRenderScript_Requeue(t *testing.T) {
	t.Parallel()

	job := testJob()
	job.Requeue = true
	script, err := RenderScript(job)
	require.NoError(t, err)
	require.Contains(t, script, "#SBATCH --requeue\n")
}

func TestRenderScript_OmitsEmptyDirectives(t *testing.T) {
	t.Parallel()

	job := &Job{Name: "bare", ModelPath: "/ckpt/x", Mode: "bt"}
	script, err := RenderScript(job)
	require.NoError(t, err)

	require.NotContains(t, script, "--time")
	require.NotContains(t, script, "--gres")
	require.NotContains(t, script, "--partition")
	require.NotContains(t, script, "--output")
	require.NotContains(t, script, "source activate")
}

func TestRenderScript_UnknownMode(t *testing.T) {
	t.Parallel()

	job := testJob()
	job.Mode = "dpo"
	_, err := RenderScript(job)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown evaluation mode "dpo"`)
}
