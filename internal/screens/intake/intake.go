// Package intake loads the learner's question document and generates the
// taxonomy questions for it.
package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/expansion"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/ui/components"
	"github.com/abhisek/learnify/internal/ui/layout"
	"github.com/abhisek/learnify/internal/ui/theme"
)

type phase int

const (
	phasePath phase = iota
	phasePreview
)

// maxPreview caps the questions listed before generation.
const maxPreview = 12

// IntakeScreen asks for a question file, previews it and runs expansion.
type IntakeScreen struct {
	p       *pipeline.Pipeline
	next    func() screen.Screen
	input   components.TextInput
	spinner spinner.Model

	phase     phase
	questions []string
	busy      bool
	errMsg    string

	readFile func(string) ([]byte, error)
}

var _ screen.Screen = (*IntakeScreen)(nil)
var _ screen.KeyHintProvider = (*IntakeScreen)(nil)
var _ screen.BusyReporter = (*IntakeScreen)(nil)

// New creates an IntakeScreen. next builds the screen shown once the
// questions have been generated.
func New(p *pipeline.Pipeline, next func() screen.Screen) *IntakeScreen {
	s := &IntakeScreen{
		p:        p,
		next:     next,
		input:    components.NewTextInput("path/to/questions.txt", false, 0),
		spinner:  components.NewSpinner(),
		readFile: os.ReadFile,
	}
	if st := p.State(); st.SourceText != "" {
		s.input.SetValue(st.SourceName)
		s.questions = expansion.SplitQuestions(st.SourceText)
		s.phase = phasePreview
	}
	return s
}

func (s *IntakeScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *IntakeScreen) Title() string {
	return "Load Questions"
}

func (s *IntakeScreen) Busy() bool {
	return s.busy
}

func (s *IntakeScreen) KeyHints() []layout.KeyHint {
	if s.phase == phasePreview {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate questions"},
			{Key: "e", Description: "Change file"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Load file"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *IntakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case screen.StageDoneMsg:
		if msg.Stage != stageerr.StageExpand {
			return s, nil
		}
		s.busy = false
		if msg.Err != nil {
			s.errMsg = stageerr.UserMessage(msg.Err)
			return s, nil
		}
		next := s.next()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		if s.phase == phasePreview {
			return s.updatePreview(msg)
		}
		if msg.String() == "enter" {
			s.load()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *IntakeScreen) updatePreview(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		s.busy = true
		s.errMsg = ""
		return s, tea.Batch(s.spinner.Tick, screen.RunStage(stageerr.StageExpand, s.p.Expand))
	case "e":
		s.phase = phasePath
		s.errMsg = ""
		return s, s.input.Focus()
	}
	return s, nil
}

// load reads the file named in the input and hands it to the pipeline.
func (s *IntakeScreen) load() {
	path := strings.TrimSpace(s.input.Value())
	if path == "" {
		s.errMsg = "Enter the path of a text file with one question per line."
		return
	}
	data, err := s.readFile(expandHome(path))
	if err != nil {
		s.input.Submit(false)
		s.errMsg = fmt.Sprintf("Could not read %s: %v", path, err)
		return
	}
	if err := s.p.Ingest(context.Background(), filepath.Base(path), string(data)); err != nil {
		s.input.Submit(false)
		s.errMsg = stageerr.UserMessage(err)
		return
	}
	s.input.Submit(true)
	s.questions = expansion.SplitQuestions(string(data))
	s.errMsg = ""
	s.phase = phasePreview
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func (s *IntakeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, theme.Title.Width(cw).Render("Which questions are we studying?"))
	sections = append(sections, theme.Subtitle.Width(cw).Render(
		"A plain text file, one question per line. Each becomes six questions, one per level of Bloom's Taxonomy."))

	switch s.phase {
	case phasePath:
		sections = append(sections, components.ArcadeCard(s.input.View(), cw))
	case phasePreview:
		sections = append(sections, components.ArcadeCard(s.renderPreview(cw-6), cw))
	}

	if s.busy {
		sections = append(sections, components.Working(s.spinner, "Generating taxonomy questions..."))
	}
	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Width(cw).Render(s.errMsg))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *IntakeScreen) renderPreview(w int) string {
	var b strings.Builder
	name := s.p.State().SourceName
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%s · %d question(s)", name, len(s.questions))))
	b.WriteString("\n\n")

	line := lipgloss.NewStyle().Foreground(theme.Text).Width(w)
	for i, q := range s.questions {
		if i == maxPreview {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("... and %d more", len(s.questions)-maxPreview)))
			break
		}
		b.WriteString(line.Render(fmt.Sprintf("%d. %s", i+1, q)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
