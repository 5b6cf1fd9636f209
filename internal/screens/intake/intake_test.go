package intake

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/pipeline/pipelinetest"
	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/stageerr"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "answers" }
func (s *stubScreen) Title() string                           { return "Answers" }

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

// stageDone runs cmd, descending into batches, and returns the stage result.
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

func writeQuestions(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndExpand(t *testing.T) {
	p, fakes := pipelinetest.New(t, pipeline.Options{})
	s := New(p, func() screen.Screen { return &stubScreen{} })

	s.input.SetValue(writeQuestions(t, "What is photosynthesis?\n\nWhy do leaves change color?\n"))
	s.Update(enter())

	if s.phase != phasePreview {
		t.Fatalf("expected preview phase, error %q", s.errMsg)
	}
	if len(s.questions) != 2 {
		t.Errorf("expected 2 questions in preview, got %d", len(s.questions))
	}
	if p.State().SourceName != "questions.txt" {
		t.Errorf("SourceName = %q", p.State().SourceName)
	}
	if !strings.Contains(s.View(100, 30), "Why do leaves change color?") {
		t.Error("preview should list the questions")
	}

	_, cmd := s.Update(enter())
	if !s.Busy() {
		t.Fatal("screen should be busy while expanding")
	}
	// Keys are ignored while the call runs.
	if _, c := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"}); c != nil || s.phase != phasePreview {
		t.Error("input should be ignored while busy")
	}

	done := stageDone(t, cmd)
	if done.Err != nil {
		t.Fatalf("expand: %v", done.Err)
	}
	if fakes.Expander.Calls != 1 {
		t.Errorf("expected 1 expand call, got %d", fakes.Expander.Calls)
	}

	_, cmd = s.Update(done)
	if s.Busy() {
		t.Error("screen should not be busy after the result")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected the answers screen to replace intake")
	}
}

func TestMissingFile(t *testing.T) {
	p, _ := pipelinetest.New(t, pipeline.Options{})
	s := New(p, func() screen.Screen { return &stubScreen{} })

	s.input.SetValue(filepath.Join(t.TempDir(), "nope.txt"))
	s.Update(enter())

	if s.phase != phasePath {
		t.Error("should stay on the path prompt")
	}
	if !strings.Contains(s.errMsg, "Could not read") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestEmptyFileRejected(t *testing.T) {
	p, _ := pipelinetest.New(t, pipeline.Options{})
	s := New(p, func() screen.Screen { return &stubScreen{} })

	s.input.SetValue(writeQuestions(t, "  \n\n"))
	s.Update(enter())

	if s.phase != phasePath || s.errMsg == "" {
		t.Errorf("empty file should be rejected, phase %v err %q", s.phase, s.errMsg)
	}
	if p.State().SourceText != "" {
		t.Error("empty file must not be ingested")
	}
}

func TestExpandFailureShowsMessage(t *testing.T) {
	p, fakes := pipelinetest.New(t, pipeline.Options{})
	fakes.Expander.Err = stageerr.New(stageerr.StageExpand, stageerr.KindTransport, errors.New("connection refused"))
	s := New(p, func() screen.Screen { return &stubScreen{} })

	s.input.SetValue(writeQuestions(t, "What is photosynthesis?"))
	s.Update(enter())
	_, cmd := s.Update(enter())
	_, next := s.Update(stageDone(t, cmd))

	if next != nil {
		t.Error("failure must not navigate")
	}
	if s.errMsg == "" || strings.Contains(s.errMsg, "connection refused") {
		t.Errorf("expected a generic message, got %q", s.errMsg)
	}
	if p.State().SourceText == "" {
		t.Error("the loaded document should be kept for a retry")
	}
}

func TestResumeStartsInPreview(t *testing.T) {
	p, _ := pipelinetest.New(t, pipeline.Options{})
	if err := p.Ingest(t.Context(), "saved.txt", "What is photosynthesis?"); err != nil {
		t.Fatal(err)
	}
	s := New(p, func() screen.Screen { return &stubScreen{} })
	if s.phase != phasePreview || len(s.questions) != 1 {
		t.Errorf("expected preview of the loaded document, phase %v", s.phase)
	}
	if len(s.KeyHints()) != 3 {
		t.Errorf("preview should offer three key hints")
	}
}
