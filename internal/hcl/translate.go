package hcl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evalsweep/internal/config"
	"github.com/vk/evalsweep/internal/ctxlog"
)

// translateSweep converts the HCL-specific sweep schema into the agnostic
// model, applying defaults for optional attributes.
func translateSweep(ctx context.Context, s *Sweep) (*config.Sweep, error) {
	rates, normalised, err := learningRates(s.LearningRates)
	if err != nil {
		return nil, fmt.Errorf("sweep %q: %w", s.Name, err)
	}
	if normalised {
		// Checkpoint directories are usually named after the notation the
		// training run used ("lr1e-6"); the normalised form may not match
		// it, which would make every point a missing-checkpoint skip.
		ctxlog.FromContext(ctx).Warn(
			"Bare numeric learning_rates were normalised; quote them to keep the notation used in checkpoint directory names.",
			"sweep", s.Name, "learning_rates", rates)
	}

	out := &config.Sweep{
		Name:               s.Name,
		LearningRates:      rates,
		Checkpoints:        s.Checkpoints,
		CheckpointTemplate: s.CheckpointTemplate,
		ResultsDir:         s.ResultsDir,
		Mode:               s.Mode,
		Env:                s.Env,
		Requeue:            s.Requeue,
	}
	if out.Mode == "" {
		out.Mode = config.ModeBT
	}
	if s.Resources != nil {
		out.Resources = config.Resources{
			Time:      s.Resources.Time,
			GPUs:      s.Resources.GPUs,
			Partition: s.Resources.Partition,
			LogDir:    s.Resources.LogDir,
		}
	}
	return out, nil
}

// learningRates evaluates the learning_rates expression. String elements are
// taken verbatim so the notation used in checkpoint directory names
// survives; bare numbers are normalised to Go's 'e' notation (1e-06), which
// is reported via the second return so the loader can warn about it.
func learningRates(expr hcl.Expression) (rates []string, normalised bool, err error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, false, fmt.Errorf("failed to evaluate learning_rates: %w", diags)
	}
	if val.IsNull() || !val.CanIterateElements() {
		return nil, false, fmt.Errorf("learning_rates must be a list of strings or numbers")
	}

	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		if v.IsNull() {
			return nil, false, fmt.Errorf("learning_rates must not contain null elements")
		}
		switch v.Type() {
		case cty.String:
			rates = append(rates, v.AsString())
		case cty.Number:
			f, _ := v.AsBigFloat().Float64()
			rates = append(rates, strconv.FormatFloat(f, 'e', -1, 64))
			normalised = true
		default:
			return nil, false, fmt.Errorf("learning_rates elements must be strings or numbers, got %s", v.Type().FriendlyName())
		}
	}
	return rates, normalised, nil
}
