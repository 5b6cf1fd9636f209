package answers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnify/internal/artifacts"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/pipeline/pipelinetest"
	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/taxonomy"
)

type stubScreen struct{ notice string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "results" }
func (s *stubScreen) Title() string                           { return "Results" }

var (
	tab      = tea.KeyPressMsg{Code: tea.KeyTab}
	shiftTab = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	ctrlS    = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
)

func typeText(s *AnswersScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func expandedPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	p, _ := pipelinetest.New(t, pipeline.Options{})
	if err := p.Ingest(t.Context(), "q.txt", "What is photosynthesis?"); err != nil {
		t.Fatal(err)
	}
	if err := p.Expand(t.Context()); err != nil {
		t.Fatal(err)
	}
	return p
}

func newScreen(t *testing.T, p *pipeline.Pipeline) (*AnswersScreen, *stubScreen) {
	t.Helper()
	next := &stubScreen{}
	s := New(p, func(notice string) screen.Screen {
		next.notice = notice
		return next
	})
	s.Init()
	return s, next
}

func TestNavigationKeepsAnswers(t *testing.T) {
	s, _ := newScreen(t, expandedPipeline(t))
	if len(s.items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(s.items))
	}

	typeText(s, "sugar from light")
	s.Update(tab)
	if s.current != 1 {
		t.Fatalf("tab should move to item 1, at %d", s.current)
	}
	if s.area.Value() != "" {
		t.Errorf("next item should start empty, got %q", s.area.Value())
	}

	s.Update(shiftTab)
	if s.current != 0 || s.area.Value() != "sugar from light" {
		t.Errorf("going back should restore the answer, got %q at %d", s.area.Value(), s.current)
	}

	s.Update(shiftTab)
	if s.current != 5 {
		t.Errorf("shift+tab from the first item should wrap to the last, at %d", s.current)
	}
}

func TestViewShowsLevelAndQuestion(t *testing.T) {
	s, _ := newScreen(t, expandedPipeline(t))
	s.Update(tab)
	s.Update(tab)

	view := s.View(100, 40)
	for _, want := range []string{"Apply", "Describe how photosynthesis affects plant growth.", "Question 3 of 6"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSubmitAsksToConfirmMissing(t *testing.T) {
	p := expandedPipeline(t)
	s, next := newScreen(t, p)

	typeText(s, "light to sugar")
	_, cmd := s.Update(ctrlS)
	if cmd != nil {
		t.Fatal("first ctrl+s with unanswered items should only ask to confirm")
	}
	if !s.confirm || !strings.Contains(s.View(100, 40), "5 question(s) have no answer") {
		t.Error("expected a confirmation prompt naming the unanswered count")
	}

	_, cmd = s.Update(ctrlS)
	if cmd == nil {
		t.Fatal("second ctrl+s should submit")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected results to replace the answers screen")
	}
	if next.notice != "" {
		t.Errorf("unexpected notice %q", next.notice)
	}

	sheet := p.State().Answers
	if sheet == nil {
		t.Fatal("answers should be recorded")
	}
	got := sheet.Topics[0].SubQuestions[taxonomy.Remember]
	if got.Answer != "light to sugar" {
		t.Errorf("Remember answer = %q", got.Answer)
	}
	if sheet.Topics[0].SubQuestions[taxonomy.Create].Answer != "" {
		t.Error("unanswered items should be empty")
	}
}

func TestTypingCancelsConfirm(t *testing.T) {
	s, _ := newScreen(t, expandedPipeline(t))
	s.Update(ctrlS)
	typeText(s, "x")
	if s.confirm {
		t.Error("typing should cancel the pending confirmation")
	}
}

func TestSubmitAllAnsweredGoesStraightThrough(t *testing.T) {
	s, _ := newScreen(t, expandedPipeline(t))
	for range s.items {
		typeText(s, "answer")
		s.Update(tab)
	}
	_, cmd := s.Update(ctrlS)
	if cmd == nil {
		t.Fatal("expected submission without confirmation")
	}
	if got := s.responses.Answered(); got != 6 {
		t.Errorf("Answered = %d", got)
	}
}

func TestSubmitPersistenceFailureStillAdvances(t *testing.T) {
	// A file where the artifact directory should be makes every write fail.
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	p, _ := pipelinetest.New(t, pipeline.Options{}, func(d *pipeline.Deps) {
		d.Writer = artifacts.NewWriter(filepath.Join(blocked, "out"))
	})
	if err := p.Ingest(t.Context(), "q.txt", "What is photosynthesis?"); err != nil {
		t.Fatal(err)
	}
	if err := p.Expand(t.Context()); err != nil {
		t.Fatal(err)
	}

	s, next := newScreen(t, p)
	for range s.items {
		typeText(s, "a")
		s.Update(tab)
	}
	_, cmd := s.Update(ctrlS)
	if cmd == nil {
		t.Fatal("answers are kept, so the screen should still advance")
	}
	if !strings.Contains(next.notice, "Could not save results") {
		t.Errorf("expected a persistence notice, got %q", next.notice)
	}
	if p.State().Answers == nil {
		t.Error("answers should be kept in memory")
	}
}
