package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/photopicker/internal/photos"
)

// Catppuccin Mocha, the subset the picker uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorMaroon   lipgloss.Color = "#eba0ac"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorMuted   = colorOverlay1
	colorWarning = colorYellow
)

func paletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		colorPink, colorRed, colorMaroon, colorPeach, colorYellow,
		colorGreen, colorLavender, colorSubtext0, colorOverlay1,
	}
}

// statusColor is the colour the menu uses for an access level.
func statusColor(s photos.AuthorizationStatus) lipgloss.Color {
	switch s {
	case photos.StatusAuthorized:
		return colorGreen
	case photos.StatusLimited:
		return colorPeach
	case photos.StatusDenied:
		return colorRed
	case photos.StatusRestricted:
		return colorMaroon
	default:
		return colorSubtext0
	}
}
