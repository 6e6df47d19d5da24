// Package sweep expands hyperparameter grids into concrete grid points and
// derives the filesystem paths each point is judged by: the checkpoint
// directory a job would evaluate and the result file whose presence makes
// the point a no-op.
package sweep

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vk/evalsweep/internal/config"
)

// Point is one (learning rate, checkpoint step) cell of a sweep's grid.
type Point struct {
	Sweep        *config.Sweep
	LearningRate string
	Step         int
}

// Expand returns the cross product of a sweep's learning rates and
// checkpoint steps in learning-rate-major order: the outer loop walks
// learning rates, the inner loop walks steps. The order is deterministic
// and mirrors the submission order of a sequential run.
func Expand(s *config.Sweep) []Point {
	points := make([]Point, 0, len(s.LearningRates)*len(s.Checkpoints))
	for _, lr := range s.LearningRates {
		for _, step := range s.Checkpoints {
			points = append(points, Point{Sweep: s, LearningRate: lr, Step: step})
		}
	}
	return points
}

// ExpandAll expands every sweep of the model, preserving declaration order.
func ExpandAll(m *config.Model) []Point {
	var points []Point
	for _, s := range m.Sweeps {
		points = append(points, Expand(s)...)
	}
	return points
}

// ID returns the stable identity of the point, used for job names and log
// correlation. Path separators are flattened so the ID is safe as a file
// name.
func (p Point) ID() string {
	id := fmt.Sprintf("%s_lr%s_ckpt%d", p.Sweep.Name, p.LearningRate, p.Step)
	return strings.ReplaceAll(id, "/", "-")
}

// CheckpointPath expands the sweep's checkpoint template with this point's
// learning rate and step.
func (p Point) CheckpointPath() string {
	path := strings.ReplaceAll(p.Sweep.CheckpointTemplate, config.PlaceholderLR, p.LearningRate)
	return strings.ReplaceAll(path, config.PlaceholderStep, strconv.Itoa(p.Step))
}

// ResultPath returns the expected result file for this point: the last two
// elements of the checkpoint path (run directory and checkpoint directory)
// mirrored under the sweep's results dir, with a .json suffix.
func (p Point) ResultPath() string {
	ckpt := p.CheckpointPath()
	runDir := filepath.Base(filepath.Dir(ckpt))
	return filepath.Join(p.Sweep.ResultsDir, runDir, filepath.Base(ckpt)+".json")
}
