package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Search", []helpEntry{
		{"type", "Edit the query (searches after a short pause)"},
		{"Enter", "Search immediately"},
		{"Backspace", "Delete; an empty query clears the results"},
	}},
	{"Results", []helpEntry{
		{"↑/↓, Ctrl+P/N", "Move selection"},
		{"PgUp/PgDn", "Page up/down"},
		{"Ctrl+O", "Open selected repository in the browser"},
	}},
	{"Other", []helpEntry{
		{"Ctrl+T", "Toggle light/dark theme"},
		{"F1", "Toggle this help"},
		{"Esc, Ctrl+C", "Quit"},
	}},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent renders the key reference, used both inline and in the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	width := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			if w := lipgloss.Width(e.keys); w > width {
				width = w
			}
		}
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("ghsearch Help"))
	help.WriteString("\n")

	for i, s := range helpSections {
		help.WriteString("\n")
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for j, e := range s.entries {
			pad := strings.Repeat(" ", width-lipgloss.Width(e.keys))
			help.WriteString(fmt.Sprintf("  %s%s  %s", keyStyle.Render(e.keys), pad, descStyle.Render(e.desc)))
			if i < len(helpSections)-1 || j < len(s.entries)-1 {
				help.WriteString("\n")
			}
		}
	}

	return help.String()
}

// HelpOps shows the help in the ov pager
type HelpOps struct {
	program *tea.Program
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{program: program}
}

// ShowHelpInPager hands the terminal to ov until the user leaves the pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// ov must be fully gone before bubbletea takes the terminal back
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
