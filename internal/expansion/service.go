// Package expansion turns source questions into six taxonomy-aligned
// sub-questions each.
package expansion

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/query"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// ErrEmptyInput is returned when the source document has no text.
var ErrEmptyInput = errors.New("the question document is empty")

// Service runs the expansion call.
type Service struct {
	runner query.Runner
}

// NewService creates an expansion service.
func NewService(runner query.Runner) *Service {
	return &Service{runner: runner}
}

type expansionOutput struct {
	Topics []taxonomy.TopicQuestionSet `json:"Topic Questions"`
}

// Expand sends the whole source document in one call and returns one
// question set per source question, in the model's order.
func (s *Service) Expand(ctx context.Context, source string) ([]taxonomy.TopicQuestionSet, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyInput
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExpand)
	prompt := buildExpansionPrompt(source)

	var reply string
	err := query.WithTempDocument(source, "learnify-questions-*.txt", func(path string) error {
		var err error
		reply, err = s.runner.RunQuery(ctx, prompt, path, query.WithSchema(ExpansionSchema))
		return err
	})
	if err != nil {
		return nil, query.StageError(stageerr.StageExpand, err)
	}

	return parseExpansion(reply)
}

// parseExpansion strips fences, checks the reply against ExpansionSchema
// and decodes it.
func parseExpansion(reply string) ([]taxonomy.TopicQuestionSet, error) {
	body := query.StripFences(reply)
	if err := llm.ValidateJSON(ExpansionSchema, []byte(body)); err != nil {
		return nil, query.StageError(stageerr.StageExpand, err)
	}

	var out expansionOutput
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, stageerr.New(stageerr.StageExpand, stageerr.KindSchema, err)
	}
	return out.Topics, nil
}

// SplitQuestions lists the non-blank lines of a source document. It is
// only used to preview the document; expansion sends the text as is.
func SplitQuestions(source string) []string {
	var out []string
	for _, line := range strings.Split(source, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
