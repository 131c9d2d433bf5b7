package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/tui/styles"
)

// CategoryBar renders the category tabs and the active genre badge
type CategoryBar struct {
	active domain.Category
	genre  string // display name of the genre filter, "" for none
	width  int
}

// NewCategoryBar creates a new category bar
func NewCategoryBar(active domain.Category) CategoryBar {
	return CategoryBar{active: active}
}

// SetActive highlights a category
func (b *CategoryBar) SetActive(c domain.Category) {
	b.active = c
}

// SetGenre sets the genre badge text
func (b *CategoryBar) SetGenre(name string) {
	b.genre = name
}

// SetWidth updates the component width
func (b *CategoryBar) SetWidth(width int) {
	b.width = width
}

// View renders the component
func (b CategoryBar) View() string {
	tabs := make([]string, 0, len(domain.Categories())+1)
	for _, c := range domain.Categories() {
		if c == b.active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(c.String()))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(c.String()))
		}
	}

	bar := strings.Join(tabs, " ")
	if b.genre != "" {
		bar += "  " + styles.GenreBadgeStyle.Render(b.genre)
	}

	// Fall back to the active category alone on narrow terminals
	if b.width > 0 && lipgloss.Width(bar) > b.width {
		bar = styles.ActiveTabStyle.Render(b.active.String())
		if b.genre != "" {
			bar += " " + styles.GenreBadgeStyle.Render(b.genre)
		}
	}
	return bar
}
