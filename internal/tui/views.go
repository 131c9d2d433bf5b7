package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinedex/internal/tui/components"
	"github.com/mmcdole/cinedex/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	layout := m.calculateColumnLayout(m.Width)
	content := m.MovieList.View()
	if layout.inspectorWidth > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.Inspector.View())
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.CategoryBar.View(),
		m.renderSearchLine(),
		content,
		m.renderFooter(),
	)

	if m.GenreModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.GenreModal.View())
	}

	return view
}

func (m Model) renderSearchLine() string {
	if m.SearchBar.Active() {
		return m.SearchBar.View()
	}
	return styles.DimStyle.Render("/ search loaded titles")
}

// renderFooter renders a single-line footer: status on the left, counts in
// the middle and the help hint on the right.
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Catalog.Loading:
		left = styles.SpinnerStyle.Render(components.Spinner(m.SpinnerFrame)) + " " +
			styles.DimStyle.Render(fmt.Sprintf("Loading page %d...", m.Catalog.Page))
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	case m.Catalog.Err != nil:
		left = styles.ErrorStyle.Render("Last page failed: " + errorText(m.Catalog.Err))
	}

	center := m.renderCounts()
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func (m Model) renderCounts() string {
	s := m.Catalog
	text := components.FormatCount(len(s.Items))
	if s.Filter.Query != "" {
		text = fmt.Sprintf("%d of %s", len(s.Visible), text)
	}
	if s.PagesLoaded > 0 {
		text += fmt.Sprintf(" · %d pages", s.PagesLoaded)
	}
	if s.Exhausted {
		text += " · end of list"
	} else if s.CanLoadMore() {
		text += " · " + styles.AccentStyle.Render("m") + styles.DimStyle.Render(" load more")
	}
	return styles.DimStyle.Render(text)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Keys"))
	b.WriteString("\n")
	for _, binding := range helpBindings() {
		h := binding.Help()
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(h.Key, 12)))
		b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpKeyStyle.Render(styles.Pad("j/k G", 12)))
	b.WriteString(styles.HelpDescStyle.Render("move, last row"))
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("Press any key to return..."))

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(b.String()))
}
