package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinedex/internal/tui/styles"
)

// SearchBar is the inline title search. It only narrows what is already
// loaded and never triggers a fetch.
type SearchBar struct {
	input textinput.Model
	width int
}

// NewSearchBar creates a new search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.CharLimit = 100
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	return SearchBar{input: ti}
}

// Focus starts typing mode
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur leaves typing mode, keeping the query
func (s *SearchBar) Blur() {
	s.input.Blur()
}

// Focused reports whether keystrokes go to the input
func (s SearchBar) Focused() bool {
	return s.input.Focused()
}

// Clear empties the query and leaves typing mode
func (s *SearchBar) Clear() {
	s.input.SetValue("")
	s.input.Blur()
}

// Query returns the current query text
func (s SearchBar) Query() string {
	return s.input.Value()
}

// Active reports whether a query is applied or being typed
func (s SearchBar) Active() bool {
	return s.input.Focused() || s.input.Value() != ""
}

// SetWidth updates the component width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-4, 10)
}

// Update routes input while focused. changed reports whether the query text changed.
func (s SearchBar) Update(msg tea.Msg) (sb SearchBar, cmd tea.Cmd, changed bool) {
	if !s.input.Focused() {
		return s, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		keys := SearchBarKeys
		switch {
		case key.Matches(keyMsg, keys.Clear):
			had := s.input.Value() != ""
			s.Clear()
			return s, nil, had
		case key.Matches(keyMsg, keys.Accept):
			s.input.Blur()
			return s, nil, false
		}
	}

	prev := s.input.Value()
	s.input, cmd = s.input.Update(msg)
	return s, cmd, s.input.Value() != prev
}

// View renders the component
func (s SearchBar) View() string {
	return s.input.View()
}
