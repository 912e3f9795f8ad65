package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors that differ between the light and dark theme
type Palette struct {
	Title     lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Selection lipgloss.Color
	Error     lipgloss.Color
	Loading   lipgloss.Color
	Success   lipgloss.Color
	Star      lipgloss.Color
}

var lightPalette = Palette{
	Title:     lipgloss.Color("55"),
	Text:      lipgloss.Color("235"),
	Muted:     lipgloss.Color("244"),
	Accent:    lipgloss.Color("25"),
	Highlight: lipgloss.Color("166"),
	Selection: lipgloss.Color("254"),
	Error:     lipgloss.Color("160"),
	Loading:   lipgloss.Color("244"),
	Success:   lipgloss.Color("28"),
	Star:      lipgloss.Color("136"),
}

var darkPalette = Palette{
	Title:     lipgloss.Color("99"),
	Text:      lipgloss.Color("252"),
	Muted:     lipgloss.Color("241"),
	Accent:    lipgloss.Color("39"),
	Highlight: lipgloss.Color("226"),
	Selection: lipgloss.Color("238"),
	Error:     lipgloss.Color("203"),
	Loading:   lipgloss.Color("241"),
	Success:   lipgloss.Color("78"),
	Star:      lipgloss.Color("220"),
}

// Styles contains all the style definitions for the UI
type Styles struct {
	Dark bool

	Title         lipgloss.Style
	Prompt        lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Name          lipgloss.Style
	Owner         lipgloss.Style
	Description   lipgloss.Style
	Language      lipgloss.Style
	Stars         lipgloss.Style
	Counts        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	Scroll        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
}

// NewStyles creates the styles for the light or dark theme
func NewStyles(dark bool) *Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return &Styles{
		Dark: dark,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Title),
		Prompt:        lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Status:        lipgloss.NewStyle().Foreground(p.Muted),
		StatusError:   lipgloss.NewStyle().Foreground(p.Error),
		StatusLoading: lipgloss.NewStyle().Foreground(p.Loading).Italic(true),
		StatusSuccess: lipgloss.NewStyle().Foreground(p.Success),
		Name:          lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Owner:         lipgloss.NewStyle().Foreground(p.Muted),
		Description:   lipgloss.NewStyle().Foreground(p.Muted),
		Language:      lipgloss.NewStyle().Foreground(p.Accent),
		Stars:         lipgloss.NewStyle().Foreground(p.Star),
		Counts:        lipgloss.NewStyle().Foreground(p.Muted),
		Highlight:     lipgloss.NewStyle().Foreground(p.Highlight).Bold(true),
		SelectionBg:   lipgloss.NewStyle().Background(p.Selection),
		Scroll:        lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(0, 1),
	}
}
