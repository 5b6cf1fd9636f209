package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗ █████╗ ██████╗ ███╗   ██╗██╗███████╗██╗   ██╗
 ██║     ██╔════╝██╔══██╗██╔══██╗████╗  ██║██║██╔════╝╚██╗ ██╔╝
 ██║     █████╗  ███████║██████╔╝██╔██╗ ██║██║█████╗   ╚████╔╝
 ██║     ██╔══╝  ██╔══██║██╔══██╗██║╚██╗██║██║██╔══╝    ╚██╔╝
 ███████╗███████╗██║  ██║██║  ██║██║ ╚████║██║██║        ██║
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝╚═╝        ╚═╝`

const bannerCompact = "L E A R N I F Y"

// bannerMinWidth is the narrowest terminal that fits the block art.
const bannerMinWidth = 66

// RenderBanner returns the LEARNIFY banner styled in the primary color.
// Uses a compact fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
