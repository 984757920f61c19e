package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/photopicker/internal/preview"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	dimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	statusStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	promptBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(1, 2)
	pickerBox     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorFocus).Padding(0, 1)
	maxPickerRows = 12
)

func (a *App) View() string {
	if a.prompt != nil {
		return a.viewPrompt()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("PhotoPicker"))
	b.WriteString("\n\n")
	b.WriteString(a.viewMenu())

	if a.picking {
		b.WriteString("\n")
		b.WriteString(a.viewPicker())
	}

	if img := a.viewImage(); img != "" {
		b.WriteString("\n")
		b.WriteString(img)
	}

	b.WriteString("\n")
	if n := a.store.InFlight(); n > 0 {
		b.WriteString(a.spinner.View() + fmt.Sprintf(" working (%d)", n) + "\n")
	}
	if a.status != "" {
		b.WriteString(statusStyle.Render(a.status) + "\n")
	}
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) viewMenu() string {
	status := lipgloss.NewStyle().Foreground(statusColor(a.state.Status)).Render(a.state.Status.String())
	rows := []string{
		"Request Photo Permissions " + status,
		"Settings",
		"Pick Image",
	}
	var b strings.Builder
	for i, row := range rows {
		if i == a.menuCursor && !a.picking {
			b.WriteString(cursorStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewPicker() string {
	var b strings.Builder
	if a.filtering || a.filter.Value() != "" {
		b.WriteString(a.filter.View())
		b.WriteString("\n")
	}
	if len(a.visible) == 0 {
		b.WriteString(dimStyle.Render("no images"))
		return pickerBox.Render(b.String())
	}

	start := 0
	if a.itemCursor >= maxPickerRows {
		start = a.itemCursor - maxPickerRows + 1
	}
	end := min(len(a.visible), start+maxPickerRows)
	for i := start; i < end; i++ {
		name := a.visible[i].String()
		if i == a.itemCursor {
			b.WriteString(cursorStyle.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(a.visible) {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("… %d more", len(a.visible)-end)))
	}
	return pickerBox.Render(b.String())
}

// viewImage renders the current image bytes, or nothing when there are none
// or they do not decode.
func (a *App) viewImage() string {
	if !a.state.HasImage() {
		return ""
	}
	art, ok := preview.Render(a.state.Image, a.ui.PreviewWidth, a.ui.PreviewHeight)
	if !ok {
		return ""
	}
	caption := preview.Describe(a.state.Image)
	if a.state.Selected != nil {
		caption = a.state.Selected.Name() + "  " + caption
	}
	return art + "\n" + dimStyle.Render(caption)
}

func (a *App) viewPrompt() string {
	body := titleStyle.Render(`"PhotoPicker" would like to access your photos`) + "\n\n" +
		"Choose which photos the app can see.\n\n" +
		fmt.Sprintf("[%s] %s   [%s] %s   [%s] %s",
			a.pkeys.Allow.Help().Key, a.pkeys.Allow.Help().Desc,
			a.pkeys.Limited.Help().Key, a.pkeys.Limited.Help().Desc,
			a.pkeys.Deny.Help().Key, a.pkeys.Deny.Help().Desc) + "\n" +
		dimStyle.Render(fmt.Sprintf("[%s] %s   [%s] quit",
			a.pkeys.Dismiss.Help().Key, a.pkeys.Dismiss.Help().Desc,
			a.keys.Quit.Help().Key))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, promptBox.Render(body))
}
