package coaching

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	advice "github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/pipeline/pipelinetest"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/stageerr"
)

func stageDone(t *testing.T, cmd tea.Cmd) screen.StageDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case screen.StageDoneMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if done, ok := c().(screen.StageDoneMsg); ok {
				return done
			}
		}
	}
	t.Fatal("no StageDoneMsg produced")
	return screen.StageDoneMsg{}
}

func scoredPipeline(t *testing.T) (*pipeline.Pipeline, *pipelinetest.Fakes) {
	t.Helper()
	p, fakes := pipelinetest.New(t, pipeline.Options{})
	ctx := t.Context()
	if err := p.Ingest(ctx, "q.txt", "What is photosynthesis?"); err != nil {
		t.Fatal(err)
	}
	if err := p.Expand(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.SubmitAnswers(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.Score(ctx); err != nil {
		t.Fatal(err)
	}
	return p, fakes
}

func TestInitGeneratesWhenEmpty(t *testing.T) {
	p, fakes := scoredPipeline(t)
	s := New(p)

	cmd := s.Init()
	if !s.Busy() {
		t.Fatal("expected busy on open")
	}
	s.Update(stageDone(t, cmd))

	if fakes.Recommender.Calls != 1 {
		t.Errorf("expected one call, got %d", fakes.Recommender.Calls)
	}
	if !strings.Contains(s.View(100, 30), "Practice explaining") {
		t.Error("expected the recommendations in view")
	}
}

func TestInitKeepsExisting(t *testing.T) {
	p, fakes := scoredPipeline(t)
	if err := p.Recommend(t.Context()); err != nil {
		t.Fatal(err)
	}
	s := New(p)
	if s.Init() != nil || s.Busy() {
		t.Error("existing recommendations should be shown without a new call")
	}
	if fakes.Recommender.Calls != 1 {
		t.Errorf("calls = %d", fakes.Recommender.Calls)
	}
}

func TestAudienceChangeClearsAndRegenerates(t *testing.T) {
	p, fakes := scoredPipeline(t)
	if err := p.Recommend(t.Context()); err != nil {
		t.Fatal(err)
	}
	s := New(p)

	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if p.State().Audience != advice.AudienceTeacher {
		t.Fatalf("audience = %q", p.State().Audience)
	}
	if p.State().Recommendations != "" {
		t.Error("changing the audience should clear the old text")
	}
	if !strings.Contains(s.View(100, 30), "Press g") {
		t.Error("expected a hint to generate again")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	s.Update(stageDone(t, cmd))
	if fakes.Recommender.Audience != advice.AudienceTeacher {
		t.Errorf("recommender asked for %q", fakes.Recommender.Audience)
	}
}

func TestFailureShowsMessage(t *testing.T) {
	p, fakes := scoredPipeline(t)
	fakes.Recommender.Err = stageerr.New(stageerr.StageRecommend, stageerr.KindTransport, errors.New("timeout"))
	s := New(p)

	s.Update(stageDone(t, s.Init()))
	if s.Busy() {
		t.Error("should not stay busy after a failure")
	}
	if !strings.Contains(s.View(100, 30), "could not be reached") {
		t.Error("expected a generic transport message")
	}
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	p, _ := scoredPipeline(t)
	s := New(p)
	s.Init()

	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if p.State().Audience != advice.AudienceGeneral {
		t.Error("audience must not change while a call is running")
	}
}
