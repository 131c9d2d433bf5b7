package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

const (
	genreModalWidth   = 32
	genreModalMaxRows = 12
	allGenresLabel    = "All genres"
)

// genreOption is a row in the picker; the zero filter is "All genres"
type genreOption struct {
	label  string
	filter domain.GenreFilter
}

type genreOptions []genreOption

func (o genreOptions) String(i int) string { return o[i].label }
func (o genreOptions) Len() int            { return len(o) }

// GenreModal is a popup for choosing the genre filter.
// Typing narrows the list with fuzzy matching.
type GenreModal struct {
	visible  bool
	options  genreOptions
	filtered []int // indexes into options
	cursor   int
	offset   int
	active   domain.GenreFilter
	input    textinput.Model
}

// NewGenreModal creates a new genre modal
func NewGenreModal() GenreModal {
	ti := textinput.New()
	ti.Placeholder = "Filter genres..."
	ti.CharLimit = 30
	ti.Width = genreModalWidth - 2
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	return GenreModal{input: ti}
}

// Show displays the modal with the given genres and current selection
func (m *GenreModal) Show(genres []domain.Genre, active domain.GenreFilter) tea.Cmd {
	m.visible = true
	m.active = active
	m.options = make(genreOptions, 0, len(genres)+1)
	m.options = append(m.options, genreOption{label: allGenresLabel, filter: domain.NoGenre})
	for _, g := range genres {
		m.options = append(m.options, genreOption{label: g.Name, filter: domain.WithGenre(g.ID)})
	}
	m.input.SetValue("")
	m.applyFilter()

	// Position cursor on the active genre
	for i, idx := range m.filtered {
		if m.options[idx].filter == active {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
	return m.input.Focus()
}

// Hide dismisses the modal
func (m *GenreModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m GenreModal) IsVisible() bool {
	return m.visible
}

// Matches returns the labels currently listed, in display order
func (m GenreModal) Matches() []string {
	labels := make([]string, len(m.filtered))
	for i, idx := range m.filtered {
		labels[i] = m.options[idx].label
	}
	return labels
}

// Update handles input. The returned filter is non-nil when the user
// confirmed a choice.
func (m GenreModal) Update(msg tea.Msg) (GenreModal, tea.Cmd, *domain.GenreFilter) {
	if !m.visible {
		return m, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		keys := GenreModalKeys
		switch {
		case key.Matches(keyMsg, keys.Escape):
			m.Hide()
			return m, nil, nil
		case key.Matches(keyMsg, keys.Enter):
			if len(m.filtered) == 0 {
				return m, nil, nil
			}
			chosen := m.options[m.filtered[m.cursor]].filter
			m.Hide()
			return m, nil, &chosen
		case key.Matches(keyMsg, keys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.ensureVisible()
			}
			return m, nil, nil
		case key.Matches(keyMsg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}
			return m, nil, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.applyFilter()
	}
	return m, cmd, nil
}

func (m *GenreModal) applyFilter() {
	m.cursor = 0
	m.offset = 0

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.filtered = make([]int, len(m.options))
		for i := range m.options {
			m.filtered[i] = i
		}
		return
	}

	matches := fuzzy.FindFrom(query, m.options)
	m.filtered = make([]int, len(matches))
	for i, match := range matches {
		m.filtered[i] = match.Index
	}
}

func (m *GenreModal) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+genreModalMaxRows {
		m.offset = m.cursor - genreModalMaxRows + 1
	}
}

// View renders the genre modal
func (m GenreModal) View() string {
	if !m.visible {
		return ""
	}

	lines := []string{m.input.View(), ""}

	if len(m.filtered) == 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Pad("No matches", genreModalWidth)))
	}

	end := min(m.offset+genreModalMaxRows, len(m.filtered))
	for i := m.offset; i < end; i++ {
		opt := m.options[m.filtered[i]]
		selected := i == m.cursor
		isActive := opt.filter == m.active

		prefix := "  "
		if isActive {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+opt.label, genreModalWidth)

		switch {
		case selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		case isActive:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.Accent).
				Render(text))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(text))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Genre") + "\n" + strings.Join(lines, "\n"))
}
