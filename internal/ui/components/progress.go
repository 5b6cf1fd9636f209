package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a value on a fixed scale.
type ProgressBar struct {
	Label      string
	LabelWidth int
	Value      float64
	Max        float64
	ShowValue  bool
	Width      int
	Color      color.Color
}

// NewScoreBar creates a bar for a score out of max.
func NewScoreBar(label string, value, max float64, width int) ProgressBar {
	return ProgressBar{
		Label:     label,
		Value:     value,
		Max:       max,
		ShowValue: true,
		Width:     width,
		Color:     theme.Secondary,
	}
}

// Fraction returns Value/Max clamped to [0,1].
func (p ProgressBar) Fraction() float64 {
	if p.Max <= 0 {
		return 0
	}
	f := p.Value / p.Max
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	valueWidth := 0
	if p.ShowValue {
		valueWidth = 7 // "  5.00"
	}

	barWidth := p.Width - labelWidth - valueWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if p.ShowValue {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %.2f", p.Value))
	}

	return result
}
