package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette: calm study colors with a warm highlight.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	Highlight = lipgloss.Color("#FDE047") // selected button fill
)

// Level colors run from cool to warm, lower-order thinking to higher-order.
var levelColors = []color.Color{
	lipgloss.Color("#38BDF8"), // Remember
	lipgloss.Color("#2DD4BF"), // Understand
	lipgloss.Color("#4ADE80"), // Apply
	lipgloss.Color("#FACC15"), // Analyze
	lipgloss.Color("#FB923C"), // Evaluate
	lipgloss.Color("#F472B6"), // Create
}

// LevelColor returns the color for the taxonomy level at index i.
func LevelColor(i int) color.Color {
	if i < 0 || i >= len(levelColors) {
		return Text
	}
	return levelColors[i]
}

// ScoreColor maps a 0-5 score to a status color.
func ScoreColor(score, threshold float64) color.Color {
	switch {
	case score >= 4:
		return Success
	case score >= threshold:
		return Secondary
	case score > 0:
		return Warning
	default:
		return Error
	}
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Notice = lipgloss.NewStyle().
		Foreground(Accent)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)
)
