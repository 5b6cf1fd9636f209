// Package coaching asks the model for metacognitive recommendations based
// on a taxonomy evaluation.
package coaching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/query"
	"github.com/abhisek/learnify/internal/stageerr"
)

// ErrNoEvaluation is returned when Recommend is called without an evaluation.
var ErrNoEvaluation = errors.New("evaluation data is missing")

// Service runs the coaching call.
type Service struct {
	runner    query.Runner
	threshold float64
}

// NewService creates a coaching service. Levels averaging below threshold
// are named in the prompt as focus areas.
func NewService(runner query.Runner, threshold float64) *Service {
	return &Service{runner: runner, threshold: threshold}
}

// Recommend returns the model's recommendations verbatim, trimmed of
// surrounding whitespace. The reply is free text; it is not parsed.
func (s *Service) Recommend(ctx context.Context, ev *evaluation.Evaluation, audience Audience) (string, error) {
	if ev == nil {
		return "", ErrNoEvaluation
	}

	data, err := ev.JSON()
	if err != nil {
		return "", fmt.Errorf("encode evaluation: %w", err)
	}

	var focus []string
	for _, l := range ev.BelowThreshold(s.threshold) {
		focus = append(focus, string(l))
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeRecommend)
	prompt := buildCoachingPrompt(audience, data, focus)

	var reply string
	err = query.WithTempDocument(prompt, "learnify-coaching-*.txt", func(path string) error {
		var err error
		reply, err = s.runner.RunQuery(ctx, prompt, path)
		return err
	})
	if err != nil {
		return "", query.StageError(stageerr.StageRecommend, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", stageerr.Errorf(stageerr.StageRecommend, stageerr.KindEmpty, "no response from the language model")
	}
	return reply, nil
}
