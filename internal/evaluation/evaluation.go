// Package evaluation turns scored answers and level weights into a
// per-level profile and a composite score.
package evaluation

import (
	"fmt"
	"sort"

	"github.com/abhisek/learnify/internal/taxonomy"
)

// DefaultThreshold is the average score below which a level is listed as
// a focus area.
const DefaultThreshold = 3.0

// LevelEvaluation is the result for one level.
type LevelEvaluation struct {
	AverageScore    float64 `json:"average_score"`
	Weight          float64 `json:"weight"`
	WeightedAverage float64 `json:"weighted_average"`
	// Count is the number of scored sub-questions behind AverageScore.
	Count int `json:"-"`
}

// Evaluation is the taxonomy profile. Its JSON form is what the coaching
// prompt receives.
type Evaluation struct {
	Levels    taxonomy.LevelMap[LevelEvaluation] `json:"Bloom Taxonomy"`
	Composite float64                            `json:"-"`
	// Warnings name levels with no scored sub-questions.
	Warnings []string `json:"-"`
}

// Evaluate computes the profile. Weights are normalized first. Missing
// scores count as 0 in the average; a level with no scored sub-questions
// averages 0 and adds a warning.
func Evaluate(g *taxonomy.Grouping, weights taxonomy.Weights) *Evaluation {
	w, _ := weights.Normalize()

	ev := &Evaluation{Levels: make(taxonomy.LevelMap[LevelEvaluation], len(taxonomy.Levels))}
	for _, l := range taxonomy.Levels {
		var entries []taxonomy.GroupedEntry
		if g != nil {
			entries = g.Levels[l]
		}

		le := LevelEvaluation{Weight: w[l]}
		var sum float64
		for _, e := range entries {
			if e.SubQuestion.Score != nil {
				sum += *e.SubQuestion.Score
				le.Count++
			}
		}
		if le.Count == 0 {
			ev.Warnings = append(ev.Warnings, fmt.Sprintf("No data for level '%s'.", l))
		} else {
			le.AverageScore = sum / float64(len(entries))
		}
		le.WeightedAverage = le.AverageScore * le.Weight

		ev.Levels[l] = le
		ev.Composite += le.WeightedAverage
	}
	return ev
}

// BelowThreshold lists the levels with data whose average is under
// threshold, lowest average first. Ties keep taxonomy order.
func (ev *Evaluation) BelowThreshold(threshold float64) []taxonomy.Level {
	var out []taxonomy.Level
	for _, l := range taxonomy.Levels {
		le, ok := ev.Levels[l]
		if ok && le.Count > 0 && le.AverageScore < threshold {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ev.Levels[out[i]].AverageScore < ev.Levels[out[j]].AverageScore
	})
	return out
}

// JSON returns the indented form embedded in the coaching prompt.
func (ev *Evaluation) JSON() ([]byte, error) {
	return taxonomy.MarshalIndent(ev)
}
