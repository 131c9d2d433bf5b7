package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinedex/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StatePickingGenre:
		return m.handleGenreModalKey(msg)

	case StateSearching:
		return m.handleSearchKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.State = StateSearching
		return m, m.SearchBar.Focus()

	case key.Matches(msg, Keys.Escape):
		if m.SearchBar.Query() != "" {
			m.SearchBar.Clear()
			m.catalog.SetQuery("")
			m.sync()
		}
		return m, nil

	case key.Matches(msg, Keys.NextCategory):
		return m, m.setCategory(m.Catalog.Filter.Category.Next())

	case key.Matches(msg, Keys.PrevCategory):
		return m, m.setCategory(m.Catalog.Filter.Category.Prev())

	case key.Matches(msg, Keys.Genre):
		var genres []domain.Genre
		if m.genres != nil {
			genres = m.genres.Loaded()
		}
		if len(genres) == 0 {
			m.StatusMsg = "Genres are still loading"
			m.StatusIsErr = false
			if m.genres != nil {
				return m, LoadGenresCmd(m.genres)
			}
			return m, nil
		}
		m.State = StatePickingGenre
		return m, m.GenreModal.Show(genres, m.Catalog.Filter.Genre)

	case key.Matches(msg, Keys.ClearGenre):
		return m, m.setGenre(domain.NoGenre)

	case key.Matches(msg, Keys.More):
		return m, m.loadMore()

	case key.Matches(msg, Keys.Refresh):
		return m, m.reload()

	case key.Matches(msg, Keys.Enter):
		if m.MovieList.OnFooter() {
			return m, m.loadMore()
		}
		return m, m.loadDetails()

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.InfoUp):
		m.Inspector.ScrollUp()
		return m, nil

	case key.Matches(msg, Keys.InfoDown):
		m.Inspector.ScrollDown()
		return m, nil
	}

	// Cursor movement
	var cmd tea.Cmd
	m.MovieList, cmd = m.MovieList.Update(msg)
	m.Inspector.SetMovie(m.MovieList.SelectedMovie())
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd     tea.Cmd
		changed bool
	)
	m.SearchBar, cmd, changed = m.SearchBar.Update(msg)
	if changed {
		m.catalog.SetQuery(m.SearchBar.Query())
		m.sync()
	}
	if !m.SearchBar.Focused() {
		m.State = StateBrowsing
	}
	return m, cmd
}

func (m Model) handleGenreModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd    tea.Cmd
		chosen *domain.GenreFilter
	)
	m.GenreModal, cmd, chosen = m.GenreModal.Update(msg)
	if !m.GenreModal.IsVisible() {
		m.State = StateBrowsing
	}
	if chosen != nil {
		return m, tea.Batch(cmd, m.setGenre(*chosen))
	}
	return m, cmd
}
