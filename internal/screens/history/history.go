package history

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/store"
	"github.com/abhisek/learnify/internal/ui/layout"
	"github.com/abhisek/learnify/internal/ui/theme"
)

// listLimit caps how many runs the screen loads.
const listLimit = 50

type runsLoadedMsg struct {
	Runs []store.Run
	Err  error
}

type artifactsLoadedMsg struct {
	RunID     string
	Artifacts []store.Artifact
	Err       error
}

// HistoryScreen lists past runs and, on request, the files each produced.
type HistoryScreen struct {
	runs      store.RunRepo
	artifacts store.ArtifactRepo

	list     []store.Run
	files    map[string][]store.Artifact
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. artifacts may be nil.
func New(runs store.RunRepo, artifacts store.ArtifactRepo) *HistoryScreen {
	return &HistoryScreen{
		runs:      runs,
		artifacts: artifacts,
		files:     make(map[string][]store.Artifact),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		runs, err := s.runs.List(context.Background(), listLimit)
		return runsLoadedMsg{Runs: runs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Runs"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Files"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.list = msg.Runs
		}
		s.loaded = true
		return s, nil

	case artifactsLoadedMsg:
		if msg.Err == nil {
			s.files[msg.RunID] = msg.Artifacts
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.list)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.list) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, s.loadFiles(s.list[s.selected].ID)
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadFiles(runID string) tea.Cmd {
	if s.artifacts == nil {
		return nil
	}
	if _, ok := s.files[runID]; ok {
		return nil
	}
	repo := s.artifacts
	return func() tea.Msg {
		arts, err := repo.ForRun(context.Background(), runID)
		return artifactsLoadedMsg{RunID: runID, Artifacts: arts, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading runs...")
	}
	if len(s.list) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No runs yet. Load a question file to start one.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, run := range s.list {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+RunLine(run))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderFiles(run.ID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderFiles(runID string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	files, ok := s.files[runID]
	var lines []string
	switch {
	case s.artifacts == nil:
	case !ok:
		lines = append(lines, dim.Render("    loading..."))
	case len(files) == 0:
		lines = append(lines, dim.Italic(true).Render("    No files saved for this run"))
	default:
		for _, f := range files {
			lines = append(lines, dim.Render(fmt.Sprintf("    %-30s %s", f.Kind, filepath.Base(f.Path))))
		}
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, l))
		b.WriteString("\n")
	}
	return b.String()
}

// RunLine is the one-line summary of a run used in lists.
func RunLine(run store.Run) string {
	score := "  -  "
	if run.Composite != nil {
		score = fmt.Sprintf("%5.2f", *run.Composite)
	}
	source := run.SourceName
	if source == "" {
		source = "(no file)"
	}
	return fmt.Sprintf("%s  %-8s  %-11s  %s  %s",
		run.UpdatedAt.Local().Format("Jan 02 15:04"), run.ID[:min(8, len(run.ID))], run.Stage, score, source)
}
