// Package pipelinetest provides in-memory stage implementations for tests
// of code that drives a pipeline.
package pipelinetest

import (
	"context"
	"testing"

	"github.com/abhisek/learnify/internal/artifacts"
	"github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// Photosynthesis is the question set used across tests.
func Photosynthesis() taxonomy.TopicQuestionSet {
	return taxonomy.TopicQuestionSet{
		OriginalQuestion: "What is photosynthesis?",
		Remember:         "Define photosynthesis.",
		Understand:       "Explain how photosynthesis works.",
		Apply:            "Describe how photosynthesis affects plant growth.",
		Analyze:          "Compare photosynthesis and cellular respiration.",
		Evaluate:         "Assess the importance of photosynthesis in ecosystems.",
		Create:           "Design an experiment to measure the rate of photosynthesis.",
	}
}

// Expander returns fixed question sets.
type Expander struct {
	Sets  []taxonomy.TopicQuestionSet
	Err   error
	Calls int
}

func (e *Expander) Expand(_ context.Context, _ string) ([]taxonomy.TopicQuestionSet, error) {
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Sets, nil
}

// Scorer gives every entry the score for its level, or Default.
type Scorer struct {
	Scores  map[taxonomy.Level]float64
	Default float64
	Err     error
	Calls   int
}

func (s *Scorer) Score(_ context.Context, g *taxonomy.Grouping) (*taxonomy.Grouping, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := g.Clone()
	for l, entries := range out.Levels {
		v, ok := s.Scores[l]
		if !ok {
			v = s.Default
		}
		for i := range entries {
			score := v
			entries[i].SubQuestion.Score = &score
		}
	}
	return out, nil
}

// Recommender returns fixed text and records the audience it was asked for.
type Recommender struct {
	Text     string
	Err      error
	Calls    int
	Audience coaching.Audience
}

func (r *Recommender) Recommend(_ context.Context, _ *evaluation.Evaluation, a coaching.Audience) (string, error) {
	r.Calls++
	r.Audience = a
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// Fakes are the stage doubles behind a test pipeline.
type Fakes struct {
	Expander    *Expander
	Scorer      *Scorer
	Recommender *Recommender
	Dir         string
}

// New returns a pipeline whose stages are fakes seeded with the
// photosynthesis set, a default score of 3 and a short recommendation.
// Artifacts go to a temporary directory. mods may adjust the deps before
// the pipeline is built.
func New(t testing.TB, opts pipeline.Options, mods ...func(*pipeline.Deps)) (*pipeline.Pipeline, *Fakes) {
	t.Helper()
	f := &Fakes{
		Expander:    &Expander{Sets: []taxonomy.TopicQuestionSet{Photosynthesis()}},
		Scorer:      &Scorer{Default: 3},
		Recommender: &Recommender{Text: "Practice explaining each step aloud."},
		Dir:         t.TempDir(),
	}
	deps := pipeline.Deps{
		Expander:    f.Expander,
		Scorer:      f.Scorer,
		Recommender: f.Recommender,
		Writer:      artifacts.NewWriter(f.Dir),
	}
	for _, mod := range mods {
		mod(&deps)
	}
	return pipeline.New(deps, opts), f
}
