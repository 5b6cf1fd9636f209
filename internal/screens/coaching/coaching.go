// Package coaching shows the metacognitive recommendations for the current
// run.
package coaching

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	advice "github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/ui/components"
	"github.com/abhisek/learnify/internal/ui/layout"
	"github.com/abhisek/learnify/internal/ui/theme"
)

// CoachingScreen renders the recommendations in a scrollable view.
type CoachingScreen struct {
	p        *pipeline.Pipeline
	audience components.Selector
	vp       viewport.Model
	spinner  spinner.Model

	busy     bool
	errMsg   string
	rendered string
	width    int
}

var _ screen.Screen = (*CoachingScreen)(nil)
var _ screen.KeyHintProvider = (*CoachingScreen)(nil)
var _ screen.BusyReporter = (*CoachingScreen)(nil)

// New creates a CoachingScreen for the pipeline's current evaluation.
func New(p *pipeline.Pipeline) *CoachingScreen {
	opts := make([]string, len(advice.Audiences))
	for i, a := range advice.Audiences {
		opts[i] = string(a)
	}
	return &CoachingScreen{
		p:        p,
		audience: components.NewSelector("For", opts, string(p.State().Audience)),
		vp:       viewport.New(),
		spinner:  components.NewSpinner(),
	}
}

// Init asks for recommendations when the run has none yet.
func (s *CoachingScreen) Init() tea.Cmd {
	if s.p.State().Recommendations != "" {
		return nil
	}
	return s.generate()
}

func (s *CoachingScreen) generate() tea.Cmd {
	s.busy = true
	s.errMsg = ""
	return tea.Batch(s.spinner.Tick, screen.RunStage(stageerr.StageRecommend, s.p.Recommend))
}

func (s *CoachingScreen) Title() string {
	return "Recommendations"
}

func (s *CoachingScreen) Busy() bool {
	return s.busy
}

func (s *CoachingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Audience"},
		{Key: "g", Description: "Generate"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CoachingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case screen.StageDoneMsg:
		if msg.Stage != stageerr.StageRecommend {
			return s, nil
		}
		s.busy = false
		s.errMsg = stageerr.UserMessage(msg.Err)
		s.rendered = ""
		return s, nil

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "left", "right", "h", "l":
			s.audience, _ = s.audience.Update(msg)
			s.p.SetAudience(context.Background(), advice.Audience(s.audience.Value()))
			s.rendered = ""
			return s, nil
		case "g", "enter":
			return s, s.generate()
		}
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *CoachingScreen) View(width, height int) string {
	cw := min(width-4, 90)
	var sections []string

	sections = append(sections, s.audience.View())

	body := ""
	text := s.p.State().Recommendations
	switch {
	case s.busy:
		body = components.Working(s.spinner, "Writing recommendations...")
	case text == "":
		body = theme.Hint.Render("Press g to generate recommendations for this audience.")
	default:
		if s.rendered != text || s.width != cw {
			s.width = cw
			s.rendered = text
			s.vp.SetWidth(cw)
			s.vp.SetContent(layout.Wrap(text, cw-2))
			s.vp.GotoTop()
		}
		s.vp.SetHeight(max(height-8, 3))
		body = s.vp.View()
	}
	sections = append(sections, body)

	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Width(cw).Render(s.errMsg))
	}

	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
