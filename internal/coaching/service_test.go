package coaching

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/query"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/taxonomy"
)

func sampleEvaluation() *evaluation.Evaluation {
	g := &taxonomy.Grouping{Levels: taxonomy.LevelMap[[]taxonomy.GroupedEntry]{}}
	for i, l := range taxonomy.Levels {
		s := float64(i)
		g.Levels[l] = []taxonomy.GroupedEntry{{SubQuestion: taxonomy.SubQuestionAnswer{Score: &s}}}
	}
	return evaluation.Evaluate(g, taxonomy.UniformWeights())
}

func newTestService(responses ...llm.MockResponse) (*Service, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return NewService(query.NewLLMRunner(mock, query.DefaultConfig()), evaluation.DefaultThreshold), mock
}

func TestRecommend_ReturnsTextVerbatim(t *testing.T) {
	text := "## Remember\n\nUse flashcards in a Leitner box.\n"
	svc, mock := newTestService(llm.MockText("\n" + text))

	got, err := svc.Recommend(context.Background(), sampleEvaluation(), AudienceGeneral)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(text), got)

	req, _ := mock.LastRequest()
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "addressing teachers")
	assert.Contains(t, prompt, `"weighted_average"`)
	assert.Contains(t, prompt, "weakest first: Remember, Understand, Apply.")
	assert.Empty(t, req.System, "prompt already holds the document")
	assert.Nil(t, req.Schema)
}

func TestRecommend_AudiencePrompts(t *testing.T) {
	tests := []struct {
		audience Audience
		want     string
	}{
		{AudienceGeneral, "scores for each taxonomy level"},
		{AudienceTeacher, "Leitner system"},
		{AudienceStudent, "speaking directly to a student"},
	}

	for _, tt := range tests {
		t.Run(string(tt.audience), func(t *testing.T) {
			svc, mock := newTestService(llm.MockText("ok"))
			_, err := svc.Recommend(context.Background(), sampleEvaluation(), tt.audience)
			require.NoError(t, err)
			req, _ := mock.LastRequest()
			assert.Contains(t, req.Messages[0].Content, tt.want)
		})
	}
}

func TestRecommend_Failures(t *testing.T) {
	svc, _ := newTestService(llm.MockText("   \n"))
	_, err := svc.Recommend(context.Background(), sampleEvaluation(), AudienceStudent)
	assert.True(t, stageerr.Is(err, stageerr.KindEmpty), "got %v", err)

	svc, _ = newTestService(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}})
	_, err = svc.Recommend(context.Background(), sampleEvaluation(), AudienceStudent)
	var se *stageerr.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stageerr.StageRecommend, se.Stage)
	assert.Equal(t, stageerr.KindTransport, se.Kind)

	svc, mock := newTestService()
	_, err = svc.Recommend(context.Background(), nil, AudienceGeneral)
	assert.ErrorIs(t, err, ErrNoEvaluation)
	assert.Equal(t, 0, mock.CallCount())
}

func TestRecommend_NoFocusLine(t *testing.T) {
	g := &taxonomy.Grouping{Levels: taxonomy.LevelMap[[]taxonomy.GroupedEntry]{}}
	five := 5.0
	for _, l := range taxonomy.Levels {
		g.Levels[l] = []taxonomy.GroupedEntry{{SubQuestion: taxonomy.SubQuestionAnswer{Score: &five}}}
	}
	svc, mock := newTestService(llm.MockText("Great work."))

	_, err := svc.Recommend(context.Background(), evaluation.Evaluate(g, taxonomy.UniformWeights()), AudienceGeneral)
	require.NoError(t, err)
	req, _ := mock.LastRequest()
	assert.NotContains(t, req.Messages[0].Content, "weakest first")
}

func TestParseAudience(t *testing.T) {
	for in, want := range map[string]Audience{"": AudienceGeneral, "Teacher": AudienceTeacher, " student ": AudienceStudent} {
		got, err := ParseAudience(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseAudience("parent")
	assert.Error(t, err)
}
