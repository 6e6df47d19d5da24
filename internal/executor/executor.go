// Package executor walks every grid point of the loaded sweeps through the
// skip-or-submit decision and hands the survivors to the scheduler.
package executor

import (
	"context"
	"sync"

	"github.com/vk/evalsweep/internal/ctxlog"
	"github.com/vk/evalsweep/internal/fsutil"
	"github.com/vk/evalsweep/internal/manifest"
	"github.com/vk/evalsweep/internal/scheduler"
	"github.com/vk/evalsweep/internal/sweep"
)

// Outcome classifies what happened to one grid point.
type Outcome int

const (
	// Submitted means exactly one submission command was issued.
	Submitted Outcome = iota
	// AlreadyDone means the result file existed, so the point was skipped.
	AlreadyDone
	// MissingCheckpoint means the checkpoint directory did not exist, so
	// the point was skipped with a log line.
	MissingCheckpoint
	// Failed means the submission command itself failed.
	Failed
)

// Summary aggregates the outcomes of a run.
type Summary struct {
	mu sync.Mutex

	Submitted         int
	AlreadyDone       int
	MissingCheckpoint int
	Failed            int
}

func (s *Summary) record(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch o {
	case Submitted:
		s.Submitted++
	case AlreadyDone:
		s.AlreadyDone++
	case MissingCheckpoint:
		s.MissingCheckpoint++
	case Failed:
		s.Failed++
	}
}

// scriptWriter is implemented by submitters that can render a job's batch
// script without submitting it.
type scriptWriter interface {
	WriteScript(job *scheduler.Job) (string, error)
}

// Executor runs the decision pass over a set of grid points.
type Executor struct {
	submitter  scheduler.Submitter
	receipts   *manifest.Writer
	numWorkers int
	dryRun     bool
}

// New is the constructor for an Executor. A worker count below one is
// treated as one, which preserves strictly sequential submission order.
func New(submitter scheduler.Submitter, receipts *manifest.Writer, numWorkers int, dryRun bool) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Executor{
		submitter:  submitter,
		receipts:   receipts,
		numWorkers: numWorkers,
		dryRun:     dryRun,
	}
}

// Run walks all points through the decision logic with a worker pool and
// returns the aggregated summary. Individual submission failures do not
// abort the run; they are counted and reported. Context cancellation stops
// workers between points.
func (e *Executor) Run(ctx context.Context, points []sweep.Point) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	summary := &Summary{}

	pointChan := make(chan sweep.Point, len(points))
	for _, p := range points {
		pointChan <- p
	}
	close(pointChan)

	logger.Debug("Starting worker pool.", "workers", e.numWorkers, "points", len(points))
	var wg sync.WaitGroup
	wg.Add(e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go func(workerID int) {
			defer wg.Done()
			e.worker(ctx, pointChan, summary, workerID)
		}(i)
	}
	wg.Wait()

	if e.receipts != nil {
		if err := e.receipts.Flush(); err != nil {
			return summary, err
		}
	}
	return summary, ctx.Err()
}

// worker is the processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, pointChan chan sweep.Point, summary *Summary, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for p := range pointChan {
		if ctx.Err() != nil {
			return
		}
		pointCtx := ctxlog.With(ctx, "workerID", workerID, "point", p.ID())
		summary.record(e.evaluate(pointCtx, p))
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// evaluate applies the skip-or-submit decision to one grid point.
func (e *Executor) evaluate(ctx context.Context, p sweep.Point) Outcome {
	logger := ctxlog.FromContext(ctx)
	resultPath := p.ResultPath()
	checkpointPath := p.CheckpointPath()

	if fsutil.FileExists(resultPath) {
		logger.Info("Result already exists, skipping.", "result", resultPath)
		return AlreadyDone
	}

	if !fsutil.DirExists(checkpointPath) {
		logger.Info("Checkpoint does not exist, skipping.", "checkpoint", checkpointPath)
		return MissingCheckpoint
	}

	job := &scheduler.Job{
		Name:      p.ID(),
		ModelPath: checkpointPath,
		Mode:      p.Sweep.Mode,
		Env:       p.Sweep.Env,
		Requeue:   p.Sweep.Requeue,
		Time:      p.Sweep.Resources.Time,
		GPUs:      p.Sweep.Resources.GPUs,
		Partition: p.Sweep.Resources.Partition,
		LogDir:    p.Sweep.Resources.LogDir,
	}

	if e.dryRun {
		// Still render the batch script when the submitter can, so a dry
		// run leaves the same artifacts behind for inspection.
		if sw, ok := e.submitter.(scriptWriter); ok {
			if path, err := sw.WriteScript(job); err != nil {
				logger.Warn("Dry run: failed to render batch script.", "error", err)
			} else {
				logger.Debug("Dry run: batch script rendered.", "script", path)
			}
		}
		logger.Info("Dry run: would submit.", "model", checkpointPath, "mode", job.Mode)
		return Submitted
	}

	sub, err := e.submitter.Submit(ctx, job)
	if err != nil {
		logger.Error("Submission failed.", "error", err)
		return Failed
	}

	logger.Info("Submitted.", "model", checkpointPath, "mode", job.Mode, "jobID", sub.JobID)
	if e.receipts != nil {
		e.receipts.Append(manifest.Receipt{
			Sweep:        p.Sweep.Name,
			LearningRate: p.LearningRate,
			Step:         p.Step,
			Model:        checkpointPath,
			Mode:         job.Mode,
			JobID:        sub.JobID,
		})
	}
	return Submitted
}
