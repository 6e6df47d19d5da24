// Package testutil provides the shared harness for integration-style tests:
// a temp-dir fixture writer, a thread-safe log buffer, and a fake submitter
// that records jobs instead of calling the scheduler.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evalsweep/internal/app"
	"github.com/vk/evalsweep/internal/hcl"
	"github.com/vk/evalsweep/internal/scheduler"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// FakeSubmitter records every job it is asked to submit. SubmitErr, when
// set, is returned for every submission.
type FakeSubmitter struct {
	mu        sync.Mutex
	jobs      []*scheduler.Job
	SubmitErr error
}

// Submit implements scheduler.Submitter.
func (f *FakeSubmitter) Submit(_ context.Context, job *scheduler.Job) (*scheduler.Submission, error) {
	if f.SubmitErr != nil {
		return nil, f.SubmitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return &scheduler.Submission{
		JobID:    fmt.Sprintf("%d", 1000+len(f.jobs)),
		RawReply: fmt.Sprintf("Submitted batch job %d", 1000+len(f.jobs)),
	}, nil
}

// Jobs returns a snapshot of the recorded jobs.
func (f *FakeSubmitter) Jobs() []*scheduler.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*scheduler.Job(nil), f.jobs...)
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Submitter *FakeSubmitter
	TmpDir    string
}

// RunSweep provides a standardized harness for running integration tests:
// it writes the given files (sweep HCL, fixture checkpoints and results)
// into a temp dir, builds the app with a fake submitter, and runs it.
//
// Keys ending in "/" create directories; other keys create files with the
// given content. All paths are relative to the temp root, sweep files must
// live under "sweeps/", and the literal "{root}" inside file contents is
// replaced with the temp root so fixtures can use absolute paths.
func RunSweep(t *testing.T, files map[string]string, opts ...func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		content = strings.ReplaceAll(content, "{root}", tmpDir)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	appConfig := &app.Config{
		SweepPath:    filepath.Join(tmpDir, "sweeps"),
		LogLevel:     "debug",
		LogFormat:    "text",
		WorkerCount:  1,
		GeneratedDir: filepath.Join(tmpDir, "generated"),
	}
	for _, opt := range opts {
		opt(appConfig)
	}

	logBuffer := &SafeBuffer{}
	submitter := &FakeSubmitter{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader(), submitter)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			Submitter: submitter,
			TmpDir:    tmpDir,
		}
	}

	runErr := testApp.Run(context.Background())
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Submitter: submitter,
		TmpDir:    tmpDir,
	}
}
