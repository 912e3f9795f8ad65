package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"

	"ghsearch/internal/domain"
)

// header: title, input, status, blank line. footer: scroll line, blank line, help.
const (
	headerLines = 4
	footerLines = 3
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Input          string // rendered text input
	Query          string // last query sent to the controller
	Search         domain.SearchState
	SelectedIndex  int
	ViewportOffset int
	StatusMessage  string // transient message, e.g. browser errors
	ShowHelp       bool
	HelpContent    string
	HelpModel      help.Model
	KeyMap         help.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles     *Styles
	repoRender *RepositoryRenderer
	popup      *PopupRenderer
}

// NewRenderer creates a new renderer for the given theme
func NewRenderer(dark bool) *Renderer {
	styles := NewStyles(dark)
	return &Renderer{
		styles:     styles,
		repoRender: NewRepositoryRenderer(styles),
		popup:      NewPopupRenderer(styles),
	}
}

// Styles returns the active styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// VisibleRows returns how many repositories fit in a terminal of the given height
func VisibleRows(height int) int {
	rows := (height - headerLines - footerLines) / RowHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.Width == 0 {
		return "Loading..."
	}

	if state.ShowHelp {
		return r.popup.RenderPopup(state.HelpContent, state.Width, state.Height)
	}

	var b strings.Builder

	// Title with loading indicator
	title := r.styles.Title.Render("ghsearch")
	if state.Search.IsLoading {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		title += " " + r.styles.StatusLoading.Render(spinner[frame])
	}
	b.WriteString(title)
	b.WriteString("\n")

	b.WriteString(r.styles.Prompt.Render("Search: "))
	b.WriteString(state.Input)
	b.WriteString("\n")

	b.WriteString(r.renderStatus(state))
	b.WriteString("\n\n")

	b.WriteString(r.renderList(state))

	b.WriteString("\n\n")
	b.WriteString(r.styles.Help.Render(state.HelpModel.View(state.KeyMap)))

	return r.styles.Main.Render(b.String())
}

func (r *Renderer) renderStatus(state ViewState) string {
	s := state.Search
	switch {
	case state.StatusMessage != "":
		return r.styles.Status.Render(state.StatusMessage)
	case s.IsLoading:
		return r.styles.StatusLoading.Render(fmt.Sprintf("Searching for %q…", state.Query))
	case s.HasError():
		return r.styles.StatusError.Render("Error: " + s.Error)
	case domain.IsBlankQuery(state.Query):
		return r.styles.Status.Render("Type to search GitHub repositories")
	case len(s.Results) == 0:
		return r.styles.Status.Render(fmt.Sprintf("No repositories match %q", state.Query))
	case len(s.Results) == 1:
		return r.styles.StatusSuccess.Render("1 repository")
	default:
		return r.styles.StatusSuccess.Render(fmt.Sprintf("%d repositories", len(s.Results)))
	}
}

func (r *Renderer) renderList(state ViewState) string {
	results := state.Search.Results
	if len(results) == 0 {
		return ""
	}

	visible := VisibleRows(state.Height)
	start := state.ViewportOffset
	if start < 0 {
		start = 0
	}
	if start > len(results)-1 {
		start = len(results) - 1
	}
	end := start + visible
	if end > len(results) {
		end = len(results)
	}

	rowWidth := state.Width - 2 // Main padding
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, r.repoRender.RenderRepository(results[i], i == state.SelectedIndex, state.Query, rowWidth))
	}
	list := strings.Join(rows, "\n")

	if start > 0 || end < len(results) {
		list += "\n" + r.styles.Scroll.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(results)))
	}
	return list
}
