package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/pipeline/pipelinetest"
	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/screens/home"
)

type busyScreen struct {
	busy bool
}

func (s *busyScreen) Init() tea.Cmd                           { return nil }
func (s *busyScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *busyScreen) View(int, int) string                    { return "working" }
func (s *busyScreen) Title() string                           { return "Busy" }
func (s *busyScreen) Busy() bool                              { return s.busy }

func newTestApp(t *testing.T) (AppModel, *pipeline.Pipeline) {
	t.Helper()
	p, _ := pipelinetest.New(t, pipeline.Options{})
	return newAppModel(Options{Home: home.Deps{Pipeline: p, LLMReady: true}, SkipWelcome: true}), p
}

func TestEscIgnoredWhileBusy(t *testing.T) {
	m, _ := newTestApp(t)
	s := &busyScreen{busy: true}
	m.router.Push(s)

	esc := tea.KeyPressMsg{Code: tea.KeyEscape}
	if _, cmd := m.Update(esc); cmd != nil {
		t.Fatal("esc should be ignored while a stage runs")
	}

	s.busy = false
	_, cmd := m.Update(esc)
	if cmd == nil {
		t.Fatal("esc should go back once idle")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected a PopScreenMsg")
	}
}

func TestEscOnRootDoesNothing(t *testing.T) {
	m, _ := newTestApp(t)
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on the home screen should do nothing")
	}
}

func TestStatusShowsRunAndStage(t *testing.T) {
	m, p := newTestApp(t)
	if err := p.Ingest(t.Context(), "q.txt", "What is photosynthesis?"); err != nil {
		t.Fatal(err)
	}
	got := m.status()
	if !strings.HasPrefix(got, p.State().RunID[:8]) || !strings.HasSuffix(got, "ingested") {
		t.Errorf("status() = %q", got)
	}
}

func TestFooterHints(t *testing.T) {
	m, _ := newTestApp(t)
	if got := m.footerHints(); got[0].Key != "↑↓" {
		t.Errorf("home hints = %+v", got)
	}
	m.router.Push(&busyScreen{})
	got := m.footerHints()
	if got[0].Key != "Esc" || got[len(got)-1].Key != "Ctrl+C" {
		t.Errorf("pushed screen hints = %+v", got)
	}
}
