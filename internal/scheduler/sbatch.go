package scheduler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vk/evalsweep/internal/ctxlog"
)

// sbatch replies with "Submitted batch job <id>" on success.
var submittedRe = regexp.MustCompile(`Submitted batch job (\d+)`)

// Sbatch is the Submitter backed by the sbatch command.
type Sbatch struct {
	// Bin is the submission command to invoke, "sbatch" unless overridden.
	Bin string

	// GeneratedDir is where rendered batch scripts are written before
	// submission. Created on first use.
	GeneratedDir string
}

// NewSbatch is the constructor for the sbatch-backed Submitter.
func NewSbatch(bin, generatedDir string) *Sbatch {
	if bin == "" {
		bin = "sbatch"
	}
	if generatedDir == "" {
		generatedDir = "generated"
	}
	return &Sbatch{Bin: bin, GeneratedDir: generatedDir}
}

// WriteScript renders the job's batch script and writes it under the
// generated dir, returning the script path. Exposed separately so dry runs
// produce the same artifacts as real submissions.
func (s *Sbatch) WriteScript(job *Job) (string, error) {
	script, err := RenderScript(job)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.GeneratedDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create generated dir %s: %w", s.GeneratedDir, err)
	}
	scriptPath := filepath.Join(s.GeneratedDir, job.Name+".sbatch")
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return "", fmt.Errorf("failed to write batch script %s: %w", scriptPath, err)
	}
	return scriptPath, nil
}

// Submit renders and writes the batch script, then invokes the submission
// command on it. A non-zero exit is a real error; an unparsable reply is
// not, the raw reply is kept on the receipt.
func (s *Sbatch) Submit(ctx context.Context, job *Job) (*Submission, error) {
	logger := ctxlog.FromContext(ctx)

	scriptPath, err := s.WriteScript(job)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, s.Bin, scriptPath)
	out, err := cmd.CombinedOutput()
	reply := strings.TrimSpace(string(out))
	if err != nil {
		return nil, fmt.Errorf("%s failed for %s: %w: %s", s.Bin, job.Name, err, reply)
	}

	sub := &Submission{RawReply: reply, ScriptPath: scriptPath}
	if m := submittedRe.FindStringSubmatch(reply); m != nil {
		sub.JobID = m[1]
	} else {
		logger.Warn("Could not parse job ID from scheduler reply.", "reply", reply)
	}
	return sub, nil
}
