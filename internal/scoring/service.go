// Package scoring asks the model to grade each answer of a per-level
// grouping on a 0 to 5 scale.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/query"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// ErrNothingToScore is returned for a grouping without any entries.
var ErrNothingToScore = errors.New("there are no answers to score")

// Service runs the scoring call.
type Service struct {
	runner query.Runner
}

// NewService creates a scoring service.
func NewService(runner query.Runner) *Service {
	return &Service{runner: runner}
}

type scoredLeaf struct {
	SubQuestion struct {
		Score *float64 `json:"score"`
	} `json:"Sub-Question"`
}

type scoredReply struct {
	Levels map[string][]scoredLeaf `json:"Bloom Taxonomy"`
}

// Score returns a copy of g with a score on every leaf. The input is not
// modified. Only scores are taken from the reply; question and answer text
// always come from g.
func (s *Service) Score(ctx context.Context, g *taxonomy.Grouping) (*taxonomy.Grouping, error) {
	if g == nil || total(g) == 0 {
		return nil, ErrNothingToScore
	}

	// Scores from an earlier pass are not sent back to the model.
	unscored := g.Clone()
	for _, entries := range unscored.Levels {
		for i := range entries {
			entries[i].SubQuestion.Score = nil
		}
	}
	input, err := taxonomy.MarshalIndent(unscored)
	if err != nil {
		return nil, fmt.Errorf("encode grouping: %w", err)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeScore)
	prompt := buildScoringPrompt(input)

	var reply string
	err = query.WithTempDocument(string(input), "learnify-answers-*.json", func(path string) error {
		var err error
		reply, err = s.runner.RunQuery(ctx, prompt, path, query.WithSchema(ScoringSchema))
		return err
	})
	if err != nil {
		return nil, query.StageError(stageerr.StageScore, err)
	}

	return attachScores(unscored, reply)
}

// attachScores validates the reply against ScoringSchema and copies its
// scores onto g by position.
func attachScores(g *taxonomy.Grouping, reply string) (*taxonomy.Grouping, error) {
	body := query.StripFences(reply)
	if err := llm.ValidateJSON(ScoringSchema, []byte(body)); err != nil {
		return nil, query.StageError(stageerr.StageScore, err)
	}

	var out scoredReply
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, stageerr.New(stageerr.StageScore, stageerr.KindSchema, err)
	}

	for _, l := range taxonomy.Levels {
		entries := g.Levels[l]
		leaves := out.Levels[string(l)]
		if len(leaves) != len(entries) {
			return nil, stageerr.Errorf(stageerr.StageScore, stageerr.KindSchema,
				"level %s: reply has %d entries, want %d", l, len(leaves), len(entries))
		}
		for i := range entries {
			score := leaves[i].SubQuestion.Score
			if score == nil {
				return nil, stageerr.Errorf(stageerr.StageScore, stageerr.KindSchema, "level %s entry %d has no score", l, i+1)
			}
			v := *score
			entries[i].SubQuestion.Score = &v
		}
	}
	return g, nil
}

func total(g *taxonomy.Grouping) int {
	n := 0
	for _, entries := range g.Levels {
		n += len(entries)
	}
	return n
}
