package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/ui/theme"
)

// Selector is a single-line option picker cycled with left/right.
type Selector struct {
	Label    string
	Options  []string
	Selected int
}

// NewSelector creates a selector positioned on current, or the first
// option if current is not listed.
func NewSelector(label string, options []string, current string) Selector {
	s := Selector{Label: label, Options: options}
	for i, o := range options {
		if o == current {
			s.Selected = i
			break
		}
	}
	return s
}

// Update handles left/right cycling.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.Options) == 0 {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
	case "right", "l":
		s.Selected = (s.Selected + 1) % len(s.Options)
	}
	return s, nil
}

// Value returns the selected option.
func (s Selector) Value() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.Selected]
}

// View renders the selector as "Label: ‹ a  [b]  c ›".
func (s Selector) View() string {
	parts := make([]string, len(s.Options))
	for i, o := range s.Options {
		if i == s.Selected {
			parts[i] = theme.Selected.Render("[" + o + "]")
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(o)
		}
	}
	out := "‹ " + strings.Join(parts, "  ") + " ›"
	if s.Label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Render(s.Label+": ") + out
	}
	return out
}
