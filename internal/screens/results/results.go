// Package results shows the scored taxonomy profile of the current run and
// drives scoring.
package results

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/artifacts"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/restructure"
	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/scoring"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/taxonomy"
	"github.com/abhisek/learnify/internal/ui/components"
	"github.com/abhisek/learnify/internal/ui/layout"
	"github.com/abhisek/learnify/internal/ui/theme"
)

// Routes builds the screens reachable from the results screen.
type Routes struct {
	Weights  func() screen.Screen
	Coaching func() screen.Screen
}

// ResultsScreen shows per-level scores, the composite and focus levels.
type ResultsScreen struct {
	p         *pipeline.Pipeline
	threshold float64
	routes    Routes
	spinner   spinner.Model

	busy   bool
	notice string
	errMsg string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.BusyReporter = (*ResultsScreen)(nil)

// New creates a ResultsScreen. notice, if set, is shown once at the top.
func New(p *pipeline.Pipeline, threshold float64, routes Routes, notice string) *ResultsScreen {
	return &ResultsScreen{
		p:         p,
		threshold: threshold,
		routes:    routes,
		spinner:   components.NewSpinner(),
		notice:    notice,
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) Busy() bool {
	return s.busy
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "s", Description: "Score"}}
	if s.p.State().Evaluation != nil {
		hints = append(hints,
			layout.KeyHint{Key: "w", Description: "Weights"},
			layout.KeyHint{Key: "r", Description: "Recommendations"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "n", Description: "New run"},
		layout.KeyHint{Key: "Esc", Description: "Home"},
	)
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case screen.StageDoneMsg:
		if msg.Stage != stageerr.StageScore {
			return s, nil
		}
		s.busy = false
		s.errMsg = stageerr.UserMessage(msg.Err)
		return s, nil

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		s.notice = ""
		switch msg.String() {
		case "s":
			s.busy = true
			s.errMsg = ""
			return s, tea.Batch(s.spinner.Tick, screen.RunStage(stageerr.StageScore, s.p.Score))
		case "w":
			if s.routes.Weights == nil {
				return s, nil
			}
			next := s.routes.Weights()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		case "r":
			if s.p.State().Evaluation == nil {
				s.errMsg = stageerr.UserMessage(pipeline.ErrNotScored)
				return s, nil
			}
			if s.routes.Coaching == nil {
				return s, nil
			}
			next := s.routes.Coaching()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		case "n":
			s.p.Reset()
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	st := s.p.State()
	cw := min(width-4, 72)

	var sections []string
	if s.notice != "" {
		sections = append(sections, theme.Notice.Width(cw).Render(s.notice))
	}

	switch {
	case st.Structured == nil:
		sections = append(sections, theme.Hint.Render("Submit your answers first."))
	case st.Evaluation == nil:
		sections = append(sections, s.renderUnscored(st, cw))
	default:
		sections = append(sections, s.renderProfile(st, cw))
	}

	if s.busy {
		sections = append(sections, components.Working(s.spinner, "Scoring your answers..."))
	}
	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Width(cw).Render(s.errMsg))
	}
	if arts := renderArtifacts(st.Artifacts); arts != "" {
		sections = append(sections, arts)
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *ResultsScreen) renderUnscored(st *pipeline.State, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Answers submitted"))
	b.WriteString("\n\n")

	counts := restructure.Counts(st.Structured)
	for i, l := range taxonomy.Levels {
		answered := 0
		for _, e := range st.Structured.Levels[l] {
			if e.SubQuestion.Answer != "" {
				answered++
			}
		}
		name := lipgloss.NewStyle().Foreground(theme.LevelColor(i)).Width(12).Render(string(l))
		b.WriteString(name + lipgloss.NewStyle().Foreground(theme.Text).
			Render(fmt.Sprintf("%d of %d answered", answered, counts[l])))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press s to score your answers."))
	return b.String()
}

func (s *ResultsScreen) renderProfile(st *pipeline.State, cw int) string {
	ev := st.Evaluation
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Composite score  %.2f / %.0f", ev.Composite, scoring.MaxScore)))
	b.WriteString("\n\n")

	for i, l := range taxonomy.Levels {
		le := ev.Levels[l]
		bar := components.NewScoreBar(string(l), le.AverageScore, scoring.MaxScore, cw-16)
		bar.LabelWidth = 10
		bar.Color = theme.LevelColor(i)
		b.WriteString(bar.View())
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  ×%.2f", le.Weight)))
		b.WriteString("\n")
	}

	for _, w := range ev.Warnings {
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render("⚠ " + w))
	}

	focus := ev.BelowThreshold(s.threshold)
	b.WriteString("\n\n")
	if len(focus) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).
			Render(fmt.Sprintf("Every level averages %.1f or more.", s.threshold)))
	} else {
		names := make([]string, len(focus))
		for i, l := range focus {
			names[i] = string(l)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).
			Render("Focus next on: " + strings.Join(names, ", ")))
	}
	return b.String()
}

func renderArtifacts(paths map[artifacts.Kind]string) string {
	var lines []string
	for _, k := range artifacts.Kinds {
		if p, ok := paths[k]; ok {
			lines = append(lines, "  "+p)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).
		Render("Saved files\n" + strings.Join(lines, "\n"))
}
