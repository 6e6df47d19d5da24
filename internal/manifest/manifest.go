// Package manifest records a receipt for every submitted job in a YAML
// manifest under the generated dir, so a re-run can be correlated with the
// scheduler's queue after the fact.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest file written under the generated dir.
const FileName = "receipts.yaml"

// Receipt records one accepted submission.
type Receipt struct {
	ID           string    `yaml:"id"`
	Sweep        string    `yaml:"sweep"`
	LearningRate string    `yaml:"learning_rate"`
	Step         int       `yaml:"step"`
	Model        string    `yaml:"model"`
	Mode         string    `yaml:"mode"`
	JobID        string    `yaml:"job_id,omitempty"`
	SubmittedAt  time.Time `yaml:"submitted_at"`
}

// Writer accumulates receipts during a run and flushes them to disk once at
// the end, appending to any manifest left by earlier runs.
type Writer struct {
	path string

	mu       sync.Mutex
	receipts []Receipt
}

// NewWriter is the constructor for a manifest Writer rooted in the given
// directory.
func NewWriter(dir string) *Writer {
	return &Writer{path: filepath.Join(dir, FileName)}
}

// Append records a receipt, assigning it a client-side ID. Safe for
// concurrent use by executor workers.
func (w *Writer) Append(r Receipt) Receipt {
	r.ID = uuid.NewString()
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.receipts = append(w.receipts, r)
	return r
}

// Len returns the number of receipts recorded so far.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.receipts)
}

// Flush merges this run's receipts into the manifest on disk. A run that
// submitted nothing leaves the manifest untouched.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.receipts) == 0 {
		return nil
	}

	var existing []Receipt
	if data, err := os.ReadFile(w.path); err == nil {
		if err := yaml.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("failed to parse existing manifest %s: %w", w.path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read manifest %s: %w", w.path, err)
	}

	merged := append(existing, w.receipts...)
	data, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("failed to create manifest dir: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", w.path, err)
	}

	w.receipts = w.receipts[:0]
	return nil
}
