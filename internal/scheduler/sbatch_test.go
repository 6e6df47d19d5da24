package scheduler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evalsweep/internal/ctxlog"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// stubSbatch writes an executable shell script standing in for the real
// submission command and returns its path.
func stubSbatch(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scheduler script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "sbatch")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestSbatch_Submit_ParsesJobID(t *testing.T) {
	t.Parallel()

	bin := stubSbatch(t, `echo "Submitted batch job 4242"`)
	s := NewSbatch(bin, filepath.Join(t.TempDir(), "generated"))

	sub, err := s.Submit(testContext(t), testJob())
	require.NoError(t, err)
	require.Equal(t, "4242", sub.JobID)
	require.Equal(t, "Submitted batch job 4242", sub.RawReply)

	// The rendered script must exist where the receipt says it does.
	require.FileExists(t, sub.ScriptPath)
	data, err := os.ReadFile(sub.ScriptPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "rewardbench_custom.py")
}

func TestSbatch_Submit_UnparsableReplyIsNotFatal(t *testing.T) {
	t.Parallel()

	bin := stubSbatch(t, `echo "queued, probably"`)
	s := NewSbatch(bin, filepath.Join(t.TempDir(), "generated"))

	sub, err := s.Submit(testContext(t), testJob())
	require.NoError(t, err)
	require.Empty(t, sub.JobID)
	require.Equal(t, "queued, probably", sub.RawReply)
}

func TestSbatch_Submit_NonZeroExitIsError(t *testing.T) {
	t.Parallel()

	bin := stubSbatch(t, `echo "sbatch: error: invalid partition" >&2; exit 1`)
	s := NewSbatch(bin, filepath.Join(t.TempDir(), "generated"))

	_, err := s.Submit(testContext(t), testJob())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid partition")
}

func TestSbatch_WriteScript_CreatesGeneratedDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "generated")
	s := NewSbatch("sbatch", dir)

	path, err := s.WriteScript(testJob())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "rm_bt_lr1e-6_ckpt500.sbatch"), path)
	require.FileExists(t, path)
}

func TestNewSbatch_Defaults(t *testing.T) {
	t.Parallel()

	s := NewSbatch("", "")
	require.Equal(t, "sbatch", s.Bin)
	require.Equal(t, "generated", s.GeneratedDir)
}
