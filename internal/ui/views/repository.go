package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ghsearch/internal/domain"
)

// RowHeight is the number of lines one repository takes in the list
const RowHeight = 2

// RepositoryRenderer handles rendering of repository items
type RepositoryRenderer struct {
	styles *Styles
}

// NewRepositoryRenderer creates a new repository renderer
func NewRepositoryRenderer(styles *Styles) *RepositoryRenderer {
	return &RepositoryRenderer{styles: styles}
}

// RenderRepository renders a repository as two lines: the name with its
// counts, then the owner and description.
func (r *RepositoryRenderer) RenderRepository(repo domain.Repository, isSelected bool, searchQuery string, width int) string {
	bg := func(s lipgloss.Style) lipgloss.Style {
		if isSelected {
			return s.Background(r.styles.SelectionBg.GetBackground())
		}
		return s
	}

	cursor := "  "
	if isSelected {
		cursor = "> "
	}

	// Line 1: name and counts
	var first []string
	first = append(first, bg(r.styles.Prompt).Render(cursor))
	first = append(first, r.renderName(repo.FullName, searchQuery, bg(r.styles.Name), bg(r.styles.Highlight)))
	if lang := repo.LanguageText(); lang != "" {
		first = append(first, bg(r.styles.Counts).Render(" "))
		first = append(first, bg(r.styles.Language).Render(lang))
	}
	first = append(first, bg(r.styles.Counts).Render("  "))
	first = append(first, bg(r.styles.Stars).Render("★ "+FormatCount(repo.StargazersCount)))
	first = append(first, bg(r.styles.Counts).Render(fmt.Sprintf("  👁 %s  ⑂ %s  ◎ %s",
		FormatCount(repo.WatchersCount),
		FormatCount(repo.ForksCount),
		FormatCount(repo.OpenIssuesCount))))

	// Line 2: owner and description
	desc := repo.DescriptionText()
	if desc == "" {
		desc = "No description"
	}
	ownerText := "    @" + repo.Owner.Login + " · "
	desc = truncate(singleLine(desc), width-lipgloss.Width(ownerText))
	second := bg(r.styles.Owner).Render(ownerText) + bg(r.styles.Description).Render(desc)

	return strings.Join(first, "") + "\n" + second
}

// renderName highlights the first case-insensitive match of query in name
func (r *RepositoryRenderer) renderName(name, query string, normalStyle, highlightStyle lipgloss.Style) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return normalStyle.Render(name)
	}

	index := strings.Index(strings.ToLower(name), strings.ToLower(query))
	if index == -1 || index+len(query) > len(name) {
		return normalStyle.Render(name)
	}

	before := name[:index]
	match := name[index : index+len(query)]
	after := name[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}

// FormatCount abbreviates large counts: 950, 1.2k, 90k, 1.5M
func FormatCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1000), ".0") + "k"
	case n < 1000000:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1000000), ".0") + "M"
	}
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if lipgloss.Width(s) <= width {
		return s
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
