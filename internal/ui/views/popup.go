package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopup centers a bordered box on an otherwise empty screen. Content
// taller than the screen is cut and marked so the box never scrolls the terminal.
func (pr *PopupRenderer) RenderPopup(content string, width, height int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pr.styles.Title.GetForeground()).
		Padding(1, 2)

	// border and padding take 4 rows
	maxLines := height - 4 - 2
	if maxLines < 1 {
		maxLines = 1
	}
	lines := strings.Split(content, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], pr.styles.Scroll.Render("↓ (more below, F1 in a larger terminal)"))
	}

	box := style.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
