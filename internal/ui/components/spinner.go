package components

import (
	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/ui/theme"
)

// NewSpinner returns the spinner shown while a model call is running.
func NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)
}

// Working renders a spinner frame followed by a dim label.
func Working(s spinner.Model, label string) string {
	return s.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
