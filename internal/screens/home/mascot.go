package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnify/internal/ui/theme"
)

// MascotVariant selects which owl to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // no scored run yet
	MascotCelebrating                      // current run scored at or above 4
	MascotAlert                            // no model configured
)

const mascotIdle = ` ,___,
 (O,O)
 /)_)
  ""`

const mascotCelebrating = ` ,___,
 (^,^)  ★
 /)_)
  ""`

const mascotAlert = ` ,___,
 (O,O) !
 /)_)
  ""`

// RenderMascot returns the owl for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Highlight
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
