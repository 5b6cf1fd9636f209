package taxonomy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// weightTolerance is how far from 1 a weight sum may drift before it is
// considered unnormalized.
const weightTolerance = 1e-9

// Weights maps each level to its importance in the composite score.
// A valid vector has six entries in [0,1] summing to 1.
type Weights map[Level]float64

// NormalizeOutcome describes what Normalize had to do.
type NormalizeOutcome int

const (
	// WeightsUnchanged means the input already summed to 1.
	WeightsUnchanged NormalizeOutcome = iota
	// WeightsNormalized means the input was rescaled to sum to 1.
	WeightsNormalized
	// WeightsReset means the input summed to zero and was replaced by uniform weights.
	WeightsReset
)

func (o NormalizeOutcome) String() string {
	switch o {
	case WeightsUnchanged:
		return "unchanged"
	case WeightsNormalized:
		return "normalized"
	case WeightsReset:
		return "reset"
	default:
		return "unknown"
	}
}

// UniformWeights returns 1/6 for every level.
func UniformWeights() Weights {
	w := make(Weights, len(Levels))
	for _, l := range Levels {
		w[l] = 1.0 / float64(len(Levels))
	}
	return w
}

// Sum returns the total weight across the six levels.
func (w Weights) Sum() float64 {
	var total float64
	for _, l := range Levels {
		total += clampWeight(w[l])
	}
	return total
}

// Normalize returns a copy of w whose weights sum to 1. Each input is first
// clamped to [0,1]; missing levels count as 0. A zero sum yields uniform
// weights.
func (w Weights) Normalize() (Weights, NormalizeOutcome) {
	total := w.Sum()
	if total == 0 {
		return UniformWeights(), WeightsReset
	}

	out := make(Weights, len(Levels))
	for _, l := range Levels {
		out[l] = clampWeight(w[l])
	}
	if math.Abs(total-1) <= weightTolerance {
		return out, WeightsUnchanged
	}
	for _, l := range Levels {
		out[l] /= total
	}
	return out, WeightsNormalized
}

// Clone returns an independent copy of w.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// String renders the weights in display order as "Remember=0.17,...".
func (w Weights) String() string {
	parts := make([]string, 0, len(Levels))
	for _, l := range Levels {
		parts = append(parts, fmt.Sprintf("%s=%s", l, strconv.FormatFloat(w[l], 'f', -1, 64)))
	}
	return strings.Join(parts, ",")
}

// ParseWeights reads a "Level=value" list separated by commas. Levels that
// are not mentioned get weight 0; the result is not normalized.
func ParseWeights(s string) (Weights, error) {
	w := make(Weights, len(Levels))
	for _, l := range Levels {
		w[l] = 0
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("weight %q: expected Level=value", part)
		}
		l, err := ParseLevel(name)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("weight for %s: %w", l, err)
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("weight for %s must be within [0,1], got %v", l, f)
		}
		w[l] = f
	}
	return w, nil
}

func clampWeight(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
