// Package answers presents each generated sub-question and collects the
// learner's free-text answers.
package answers

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	collector "github.com/abhisek/learnify/internal/answers"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	"github.com/abhisek/learnify/internal/stageerr"
	"github.com/abhisek/learnify/internal/ui/layout"
	"github.com/abhisek/learnify/internal/ui/theme"
)

// AnswersScreen walks the sub-questions one at a time.
type AnswersScreen struct {
	p    *pipeline.Pipeline
	next func(notice string) screen.Screen

	items     []collector.Item
	topics    int
	responses collector.Responses
	current   int
	area      textarea.Model

	confirm bool
	errMsg  string
}

var _ screen.Screen = (*AnswersScreen)(nil)
var _ screen.KeyHintProvider = (*AnswersScreen)(nil)

// New creates an AnswersScreen for the pipeline's generated questions.
// next builds the screen shown after submission; notice carries a
// non-fatal submission error, such as a failed artifact write.
func New(p *pipeline.Pipeline, next func(notice string) screen.Screen) *AnswersScreen {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.SetHeight(5)

	qs := p.State().Questions
	return &AnswersScreen{
		p:         p,
		next:      next,
		items:     collector.Items(qs),
		topics:    len(qs),
		responses: make(collector.Responses),
		area:      ta,
	}
}

func (s *AnswersScreen) Init() tea.Cmd {
	return s.area.Focus()
}

func (s *AnswersScreen) Title() string {
	return "Answer"
}

func (s *AnswersScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Shift+Tab", Description: "Previous"},
		{Key: "Ctrl+S", Description: "Submit all"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AnswersScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab":
			s.move(1)
			return s, nil
		case "shift+tab":
			s.move(-1)
			return s, nil
		case "ctrl+s":
			return s.submit()
		}
		s.confirm = false
	}

	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	return s, cmd
}

// move stores the current answer and shows the item delta steps away.
func (s *AnswersScreen) move(delta int) {
	if len(s.items) == 0 {
		return
	}
	s.store()
	s.current = (s.current + delta + len(s.items)) % len(s.items)
	s.area.SetValue(s.responses[s.items[s.current].Key])
	s.confirm = false
}

func (s *AnswersScreen) store() {
	if len(s.items) == 0 {
		return
	}
	s.responses.Set(s.items[s.current].Key, s.area.Value())
}

func (s *AnswersScreen) submit() (screen.Screen, tea.Cmd) {
	s.store()

	missing := len(s.items) - s.responses.Answered()
	if missing > 0 && !s.confirm {
		s.confirm = true
		return s, nil
	}

	err := s.p.SubmitAnswers(context.Background(), s.responses)
	if err != nil && s.p.State().Answers == nil {
		s.errMsg = stageerr.UserMessage(err)
		return s, nil
	}
	next := s.next(stageerr.UserMessage(err))
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *AnswersScreen) View(width, height int) string {
	if len(s.items) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No questions to answer."))
	}

	cw := min(width-4, 90)
	item := s.items[s.current]
	lvlColor := theme.LevelColor(item.Key.Level.Index())

	var sections []string

	progress := fmt.Sprintf("Question %d of %d · Topic %d of %d · %d answered",
		s.current+1, len(s.items), item.Key.Topic+1, s.topics, s.responses.Answered())
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Render(progress))

	sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Width(cw).
		Render("Original: "+item.OriginalQuestion))

	header := lipgloss.NewStyle().Foreground(lvlColor).Bold(true).Render(string(item.Key.Level)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+item.Prompt)
	sections = append(sections, header)

	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).
		Render(item.Question))

	s.area.SetWidth(cw)
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lvlColor).
		Render(s.area.View()))

	sections = append(sections, s.renderDots())

	if s.confirm {
		missing := len(s.items) - s.responses.Answered()
		sections = append(sections, theme.Notice.Render(fmt.Sprintf(
			"%d question(s) have no answer and will be scored as empty. Press Ctrl+S again to submit.", missing)))
	}
	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(s.errMsg))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderDots draws one marker per item: filled when answered.
func (s *AnswersScreen) renderDots() string {
	var b strings.Builder
	for i, it := range s.items {
		answered := s.responses[it.Key] != ""
		if i == s.current {
			answered = s.area.Value() != ""
		}
		dot := "○"
		if answered {
			dot = "●"
		}
		style := lipgloss.NewStyle().Foreground(theme.LevelColor(it.Key.Level.Index()))
		if i == s.current {
			style = style.Bold(true).Underline(true)
		}
		b.WriteString(style.Render(dot))
		if (i+1)%6 == 0 && i+1 < len(s.items) {
			b.WriteString("  ")
		}
	}
	return b.String()
}
