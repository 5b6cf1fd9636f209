// Package weights lets the learner change how much each taxonomy level
// counts toward the composite score.
package weights

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/taxonomy"
	"github.com/abhisek/learnify/internal/ui/components"
	"github.com/abhisek/learnify/internal/ui/layout"
	"github.com/abhisek/learnify/internal/ui/theme"
)

// WeightsScreen edits the six level weights.
type WeightsScreen struct {
	p       *pipeline.Pipeline
	inputs  []components.TextInput
	focused int
	message string
	isError bool
}

var _ screen.Screen = (*WeightsScreen)(nil)
var _ screen.KeyHintProvider = (*WeightsScreen)(nil)

// New creates a WeightsScreen prefilled with the run's current weights.
func New(p *pipeline.Pipeline) *WeightsScreen {
	s := &WeightsScreen{p: p, inputs: make([]components.TextInput, len(taxonomy.Levels))}
	for i := range taxonomy.Levels {
		s.inputs[i] = components.NewTextInput("0", true, 8)
		s.inputs[i].Blur()
	}
	s.fill(p.State().Weights)
	return s
}

func (s *WeightsScreen) fill(w taxonomy.Weights) {
	for i, l := range taxonomy.Levels {
		s.inputs[i].SetValue(formatWeight(w[l]))
	}
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func (s *WeightsScreen) Init() tea.Cmd {
	return s.inputs[s.focused].Focus()
}

func (s *WeightsScreen) Title() string {
	return "Level Weights"
}

func (s *WeightsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Level"},
		{Key: "Enter", Description: "Apply"},
		{Key: "u", Description: "Uniform"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WeightsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "up", "shift+tab":
			return s, s.focus(s.focused - 1)
		case "down", "tab":
			return s, s.focus(s.focused + 1)
		case "enter":
			s.apply(s.read)
			return s, nil
		case "u":
			s.apply(func() (taxonomy.Weights, error) { return taxonomy.UniformWeights(), nil })
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focused], cmd = s.inputs[s.focused].Update(msg)
	return s, cmd
}

func (s *WeightsScreen) focus(i int) tea.Cmd {
	n := len(s.inputs)
	s.inputs[s.focused].Blur()
	s.focused = (i + n) % n
	return s.inputs[s.focused].Focus()
}

// read parses every input. The first bad one is flagged.
func (s *WeightsScreen) read() (taxonomy.Weights, error) {
	w := make(taxonomy.Weights, len(taxonomy.Levels))
	for i, l := range taxonomy.Levels {
		v, err := s.inputs[i].FloatValue()
		if err != nil || v < 0 || v > 1 {
			s.inputs[i].Submit(false)
			return nil, fmt.Errorf("%s: enter a number between 0 and 1", l)
		}
		w[l] = v
	}
	return w, nil
}

func (s *WeightsScreen) apply(read func() (taxonomy.Weights, error)) {
	w, err := read()
	if err != nil {
		s.message, s.isError = err.Error(), true
		return
	}
	outcome := s.p.SetWeights(context.Background(), w)
	s.fill(s.p.State().Weights)
	s.message, s.isError = outcomeMessage(outcome), false
	if s.p.State().Evaluation != nil {
		s.message += fmt.Sprintf(" Composite is now %.2f.", s.p.State().Evaluation.Composite)
	}
}

func outcomeMessage(o taxonomy.NormalizeOutcome) string {
	switch o {
	case taxonomy.WeightsNormalized:
		return "Weights did not add up to 1 and were rescaled."
	case taxonomy.WeightsReset:
		return "Weights added up to zero, so every level now counts equally."
	default:
		return "Weights applied."
	}
}

func (s *WeightsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var rows []string
	for i, l := range taxonomy.Levels {
		marker := "  "
		if i == s.focused {
			marker = "▸ "
		}
		name := lipgloss.NewStyle().Foreground(theme.LevelColor(i)).Bold(i == s.focused).Width(14).
			Render(marker + string(l))
		rows = append(rows, name+s.inputs[i].View())
	}

	sections := []string{
		theme.Title.Width(cw).Render("How much should each level count?"),
		theme.Subtitle.Width(cw).Render("Each weight is between 0 and 1. They are rescaled to add up to 1."),
		components.ArcadeCard(strings.Join(rows, "\n"), cw),
	}
	if s.message != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if s.isError {
			style = theme.ErrorText
		}
		sections = append(sections, style.Width(cw).Render(s.message))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}
