package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/ui/theme"
)

// Block-letter title (same art as welcome/banner.go).
const titleFull = ` ██╗     ███████╗ █████╗ ██████╗ ███╗   ██╗██╗███████╗██╗   ██╗
 ██║     ██╔════╝██╔══██╗██╔══██╗████╗  ██║██║██╔════╝╚██╗ ██╔╝
 ██║     █████╗  ███████║██████╔╝██╔██╗ ██║██║█████╗   ╚████╔╝
 ██║     ██╔══╝  ██╔══██║██╔══██╗██║╚██╗██║██║██╔══╝    ╚██╔╝
 ███████╗███████╗██║  ██║██║  ██║██║ ╚████║██║██║        ██║
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝╚═╝        ╚═╝`

const titleCompact = "L · E · A · R · N · I · F · Y"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	art := titleFull
	if compact || cw < lipgloss.Width(titleFull) {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// runStats is what the stats bar shows about the current run and history.
type runStats struct {
	Stage     string
	Composite *float64
	Runs      int
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st runStats, cw int, compact bool) string {
	stageStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	scoreStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	runsStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	score := dimStyle.Render("NOT SCORED")
	if st.Composite != nil {
		score = scoreStyle.Render(fmt.Sprintf("%.2f / 5", *st.Composite))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			stageStyle.Render(strings.ToUpper(st.Stage)),
			score,
			runsStyle.Render(fmt.Sprintf("#%d", st.Runs)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			stageStyle.Render("▲ "+strings.ToUpper(st.Stage)),
			score,
			runsStyle.Render(fmt.Sprintf("◷ %d RUNS", st.Runs)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Highlight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Highlight).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := normalBtn.Foreground(theme.TextDim)

	var buttons []string
	for i, label := range items {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals
// where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		switch {
		case disabled[i]:
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Highlight).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderLLMBanner renders a warning banner when no model is configured.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to start a run (see learnify --help)")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
