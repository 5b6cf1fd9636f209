package evaluation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnify/internal/taxonomy"
)

func scored(scores map[taxonomy.Level][]float64) *taxonomy.Grouping {
	g := &taxonomy.Grouping{Levels: taxonomy.LevelMap[[]taxonomy.GroupedEntry]{}}
	for l, ss := range scores {
		entries := []taxonomy.GroupedEntry{}
		for _, s := range ss {
			entries = append(entries, taxonomy.GroupedEntry{
				OriginalQuestion: "q",
				SubQuestion:      taxonomy.SubQuestionAnswer{Question: "sq", Score: &s},
			})
		}
		g.Levels[l] = entries
	}
	return g
}

func near(t *testing.T, want, got float64) {
	t.Helper()
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvaluate_UniformIsPlainMean(t *testing.T) {
	scores := []float64{5, 4, 3, 2, 1, 3}
	in := map[taxonomy.Level][]float64{}
	var sum float64
	for i, l := range taxonomy.Levels {
		in[l] = []float64{scores[i]}
		sum += scores[i]
	}

	ev := Evaluate(scored(in), taxonomy.UniformWeights())
	near(t, sum/6, ev.Composite)
	assert.Empty(t, ev.Warnings)

	for i, l := range taxonomy.Levels {
		le := ev.Levels[l]
		near(t, scores[i], le.AverageScore)
		near(t, 1.0/6, le.Weight)
		assert.Equal(t, le.AverageScore*le.Weight, le.WeightedAverage)
	}
}

func TestEvaluate_AverageAndWeight(t *testing.T) {
	w := taxonomy.Weights{taxonomy.Remember: 0.5, taxonomy.Apply: 0.5}
	ev := Evaluate(scored(map[taxonomy.Level][]float64{
		taxonomy.Remember: {5, 0, 4},
		taxonomy.Apply:    {2, 2},
	}), w)

	near(t, 3, ev.Levels[taxonomy.Remember].AverageScore)
	near(t, 1.5, ev.Levels[taxonomy.Remember].WeightedAverage)
	near(t, 1, ev.Levels[taxonomy.Apply].WeightedAverage)
	near(t, 2.5, ev.Composite)
	assert.Equal(t, 3, ev.Levels[taxonomy.Remember].Count)
}

func TestEvaluate_MissingLevelsWarn(t *testing.T) {
	ev := Evaluate(scored(map[taxonomy.Level][]float64{taxonomy.Remember: {4}}), taxonomy.UniformWeights())

	require.Len(t, ev.Warnings, 5)
	assert.Equal(t, "No data for level 'Understand'.", ev.Warnings[0])
	assert.Equal(t, 0.0, ev.Levels[taxonomy.Create].AverageScore)
	assert.Equal(t, 0.0, ev.Levels[taxonomy.Create].WeightedAverage)
	near(t, 1.0/6, ev.Levels[taxonomy.Create].Weight)

	empty := Evaluate(nil, taxonomy.UniformWeights())
	assert.Len(t, empty.Warnings, 6)
	assert.Equal(t, 0.0, empty.Composite)
}

func TestEvaluate_UnscoredLeafCountsAsZero(t *testing.T) {
	g := scored(map[taxonomy.Level][]float64{taxonomy.Analyze: {4}})
	g.Levels[taxonomy.Analyze] = append(g.Levels[taxonomy.Analyze], taxonomy.GroupedEntry{})

	ev := Evaluate(g, taxonomy.UniformWeights())
	near(t, 2, ev.Levels[taxonomy.Analyze].AverageScore)
	assert.Equal(t, 1, ev.Levels[taxonomy.Analyze].Count)
}

func TestEvaluate_UnscoredLevelWarns(t *testing.T) {
	g := scored(map[taxonomy.Level][]float64{
		taxonomy.Remember:   {4},
		taxonomy.Understand: {4},
		taxonomy.Apply:      {4},
		taxonomy.Analyze:    {4},
		taxonomy.Evaluate:   {4},
	})
	g.Levels[taxonomy.Create] = []taxonomy.GroupedEntry{{
		OriginalQuestion: "q",
		SubQuestion:      taxonomy.SubQuestionAnswer{Question: "sq", Answer: "a"},
	}}

	ev := Evaluate(g, taxonomy.UniformWeights())
	assert.Equal(t, []string{"No data for level 'Create'."}, ev.Warnings)
	assert.Equal(t, 0.0, ev.Levels[taxonomy.Create].AverageScore)
	assert.Equal(t, 0, ev.Levels[taxonomy.Create].Count)
	assert.Empty(t, ev.BelowThreshold(DefaultThreshold))
}

func TestEvaluate_NormalizesWeights(t *testing.T) {
	in := map[taxonomy.Level][]float64{}
	for _, l := range taxonomy.Levels {
		in[l] = []float64{5}
	}

	ev := Evaluate(scored(in), taxonomy.Weights{taxonomy.Remember: 0.2, taxonomy.Create: 0.2})
	near(t, 0.5, ev.Levels[taxonomy.Remember].Weight)
	near(t, 5, ev.Composite)

	zero := Evaluate(scored(in), taxonomy.Weights{})
	near(t, 1.0/6, zero.Levels[taxonomy.Evaluate].Weight)
	near(t, 5, zero.Composite)
}

func TestEvaluate_CompositeBounds(t *testing.T) {
	for _, s := range []float64{0, 0.5, 2.5, 5} {
		in := map[taxonomy.Level][]float64{}
		for i, l := range taxonomy.Levels {
			in[l] = []float64{s, math.Min(5, s+float64(i)*0.5)}
		}
		ev := Evaluate(scored(in), taxonomy.UniformWeights())
		assert.GreaterOrEqual(t, ev.Composite, 0.0)
		assert.LessOrEqual(t, ev.Composite, 5.0)
		for _, l := range taxonomy.Levels {
			assert.GreaterOrEqual(t, ev.Levels[l].AverageScore, 0.0)
			assert.LessOrEqual(t, ev.Levels[l].AverageScore, 5.0)
		}
	}
}

func TestBelowThreshold(t *testing.T) {
	ev := Evaluate(scored(map[taxonomy.Level][]float64{
		taxonomy.Remember:   {4},
		taxonomy.Understand: {2.5},
		taxonomy.Apply:      {1},
		taxonomy.Analyze:    {2.5},
		taxonomy.Evaluate:   {3},
	}), taxonomy.UniformWeights())

	assert.Equal(t, []taxonomy.Level{taxonomy.Apply, taxonomy.Understand, taxonomy.Analyze}, ev.BelowThreshold(DefaultThreshold))
	assert.Empty(t, ev.BelowThreshold(0))
}

func TestJSON(t *testing.T) {
	ev := Evaluate(scored(map[taxonomy.Level][]float64{taxonomy.Remember: {3}}), taxonomy.Weights{taxonomy.Remember: 1})
	data, err := ev.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Bloom Taxonomy": {
		"Remember":   {"average_score": 3, "weight": 1, "weighted_average": 3},
		"Understand": {"average_score": 0, "weight": 0, "weighted_average": 0},
		"Apply":      {"average_score": 0, "weight": 0, "weighted_average": 0},
		"Analyze":    {"average_score": 0, "weight": 0, "weighted_average": 0},
		"Evaluate":   {"average_score": 0, "weight": 0, "weighted_average": 0},
		"Create":     {"average_score": 0, "weight": 0, "weighted_average": 0}
	}}`, string(data))
}
