package scheduler

import (
	"fmt"
	"strings"

	"github.com/vk/evalsweep/internal/config"
)

// evaluation programs dispatched on the job's mode.
const (
	btProgram   = "rewardbench_custom.py"
	lrpoProgram = "rewardbench_lrpo.py"
)

// RenderScript produces the batch script for a job: the #SBATCH directive
// header built from the job's resources, environment activation, and the
// dispatch to the evaluation program selected by the mode.
func RenderScript(job *Job) (string, error) {
	program := ""
	switch job.Mode {
	case config.ModeBT:
		program = btProgram
	case config.ModeLRPO:
		program = lrpoProgram
	default:
		return "", fmt.Errorf("unknown evaluation mode %q", job.Mode)
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "#SBATCH --job-name=%s\n", job.Name)
	if job.Time != "" {
		fmt.Fprintf(&b, "#SBATCH --time=%s\n", job.Time)
	}
	if job.GPUs > 0 {
		fmt.Fprintf(&b, "#SBATCH --gres=gpu:%d\n", job.GPUs)
	}
	if job.Partition != "" {
		fmt.Fprintf(&b, "#SBATCH --partition=%s\n", job.Partition)
	}
	if job.LogDir != "" {
		fmt.Fprintf(&b, "#SBATCH --output=%s/%s.out\n", job.LogDir, job.Name)
	}
	if job.Requeue {
		b.WriteString("#SBATCH --requeue\n")
	}
	b.WriteString("\n")

	if job.Env != "" {
		fmt.Fprintf(&b, "source activate %s\n", job.Env)
	}
	fmt.Fprintf(&b, "python %s --model %s\n", program, job.ModelPath)

	return b.String(), nil
}
