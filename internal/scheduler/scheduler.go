// Package scheduler submits evaluation jobs to a Slurm-style cluster
// scheduler. The production implementation renders a batch script with the
// job's resource directives, writes it under an auto-created directory, and
// invokes sbatch on it. Everything past submission (queueing, execution,
// retries via --requeue) is the scheduler's responsibility.
package scheduler

import "context"

// Job describes one evaluation job to be handed to the scheduler.
type Job struct {
	// Name is the scheduler-facing job name, derived from the grid point.
	Name string

	// ModelPath is the checkpoint directory passed to the evaluation
	// program via --model.
	ModelPath string

	// Mode selects the evaluation program: "bt" or "lrpo".
	Mode string

	// Env is the runtime environment activated inside the job.
	Env string

	// Requeue asks the scheduler to requeue the job after node failure or
	// preemption.
	Requeue bool

	Time      string
	GPUs      int
	Partition string
	LogDir    string
}

// Submission is the scheduler's receipt for an accepted job.
type Submission struct {
	// JobID is the scheduler-assigned identifier, empty when the reply
	// could not be parsed.
	JobID string

	// RawReply is the scheduler's verbatim stdout.
	RawReply string

	// ScriptPath is where the rendered batch script was written.
	ScriptPath string
}

// Submitter is the interface the executor submits jobs through.
type Submitter interface {
	Submit(ctx context.Context, job *Job) (*Submission, error)
}
