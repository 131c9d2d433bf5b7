package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/tui/styles"
)

// Layout constants
const (
	BorderWidth          = 2
	BorderHeight         = 2
	ScrollIndicatorLines = 2
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner returns the spinner glyph for a frame
func Spinner(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}

// ListFooter describes the trailing "load more" row
type ListFooter int

const (
	FooterNone      ListFooter = iota // nothing more to load
	FooterLoadMore                    // selectable row that requests the next page
	FooterLoading                     // a page is in flight
	FooterRetry                       // the last fetch failed
)

// MovieList renders the visible movies with a cursor and an optional
// trailing "load more" row.
type MovieList struct {
	title        string
	items        []domain.Movie
	footer       ListFooter
	genreNames   func(ids []int) []string
	cursor       int
	offset       int
	width        int
	height       int
	maxVisible   int
	focused      bool
	spinnerFrame int
	emptyText    string
}

// NewMovieList creates a new movie list
func NewMovieList() MovieList {
	return MovieList{focused: true, emptyText: "No movies"}
}

// SetTitle sets the header line
func (l *MovieList) SetTitle(title string) {
	l.title = title
}

// SetGenreNames installs the lookup used to label rows with genre names
func (l *MovieList) SetGenreNames(fn func(ids []int) []string) {
	l.genreNames = fn
}

// SetItems replaces the rows. The cursor stays on the same movie when it is
// still present, otherwise it is clamped.
func (l *MovieList) SetItems(items []domain.Movie) {
	selectedID := 0
	if m := l.SelectedMovie(); m != nil {
		selectedID = m.ID
	}
	// An empty list has its cursor on the footer row; that is not a choice
	onFooter := len(l.items) > 0 && l.OnFooter()

	l.items = items

	switch {
	case onFooter && l.footer != FooterNone:
		l.cursor = len(items)
	case selectedID != 0:
		l.cursor = 0
		for i, m := range items {
			if m.ID == selectedID {
				l.cursor = i
				break
			}
		}
	}
	l.clamp()
	l.ensureVisible()
}

// SetFooter sets the trailing row state
func (l *MovieList) SetFooter(f ListFooter) {
	l.footer = f
	l.clamp()
}

// SetEmptyText sets the message shown when there are no rows
func (l *MovieList) SetEmptyText(text string) {
	l.emptyText = text
}

// SetSize updates the component dimensions
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.maxVisible = height - BorderHeight - ScrollIndicatorLines - 1 // -1 for title
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
	l.ensureVisible()
}

// SetFocused toggles the active border
func (l *MovieList) SetFocused(focused bool) {
	l.focused = focused
}

// SetSpinnerFrame advances the loading animation
func (l *MovieList) SetSpinnerFrame(frame int) {
	l.spinnerFrame = frame
}

// Reset moves the cursor back to the top
func (l *MovieList) Reset() {
	l.cursor = 0
	l.offset = 0
}

// ItemCount returns the number of movie rows
func (l MovieList) ItemCount() int {
	return len(l.items)
}

// SelectedIndex returns the cursor position
func (l MovieList) SelectedIndex() int {
	return l.cursor
}

// SelectedMovie returns the movie under the cursor, nil on the footer row
func (l MovieList) SelectedMovie() *domain.Movie {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return nil
	}
	m := l.items[l.cursor]
	return &m
}

// OnFooter reports whether the cursor sits on the trailing row
func (l MovieList) OnFooter() bool {
	return l.footer != FooterNone && l.cursor == len(l.items)
}

func (l MovieList) rowCount() int {
	if l.footer == FooterNone {
		return len(l.items)
	}
	return len(l.items) + 1
}

// Update handles cursor movement
func (l MovieList) Update(msg tea.Msg) (MovieList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	count := l.rowCount()
	if count == 0 {
		return l, nil
	}

	keys := MovieListKeys
	switch {
	case key.Matches(keyMsg, keys.Down):
		l.cursor++
	case key.Matches(keyMsg, keys.Up):
		l.cursor--
	case key.Matches(keyMsg, keys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, keys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, keys.HalfDown):
		l.cursor += l.maxVisible / 2
	case key.Matches(keyMsg, keys.HalfUp):
		l.cursor -= l.maxVisible / 2
	case key.Matches(keyMsg, keys.PageDown):
		l.cursor += l.maxVisible
	case key.Matches(keyMsg, keys.PageUp):
		l.cursor -= l.maxVisible
	default:
		return l, nil
	}
	l.clamp()
	l.ensureVisible()
	return l, nil
}

func (l *MovieList) clamp() {
	if l.cursor >= l.rowCount() {
		l.cursor = l.rowCount() - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *MovieList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the component
func (l MovieList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l MovieList) renderContent() string {
	itemWidth := l.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))
	count := l.rowCount()

	if len(l.items) == 0 {
		msg := styles.DimStyle.Render(l.emptyText)
		switch l.footer {
		case FooterLoading:
			msg = styles.DimStyle.Render(Spinner(l.spinnerFrame) + " Loading...")
		case FooterRetry:
			msg = l.renderFooter(l.cursor == 0, itemWidth)
		}
		return titleLine + "\n \n" + msg + "\n "
	}

	end := l.offset + l.maxVisible
	if end > count {
		end = count
	}

	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		selected := i == l.cursor && l.focused
		if i == len(l.items) {
			lines = append(lines, l.renderFooter(selected, itemWidth))
			continue
		}
		lines = append(lines, l.renderMovie(l.items[i], selected, itemWidth))
	}

	// Always reserve the indicator lines so the layout does not shift
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	return titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

func (l MovieList) renderMovie(m domain.Movie, selected bool, width int) string {
	rating := fmt.Sprintf(" %4s", m.FormattedRating())
	year := "    "
	if y := m.Year(); y > 0 {
		year = fmt.Sprintf("%4d", y)
	}
	year = "  " + year

	var genres string
	if l.genreNames != nil && width >= 60 {
		if names := l.genreNames(m.GenreIDs); len(names) > 0 {
			genres = "  " + strings.Join(names, ", ")
		}
	}

	// Title gets what is left after the fixed columns and margins
	titleWidth := width - len(rating) - len(year) - 2
	if genres != "" {
		genreWidth := min(lipgloss.Width(genres), width/3)
		genres = styles.Truncate(genres, genreWidth)
		titleWidth -= genreWidth
	}
	title := styles.Pad(styles.Truncate(m.Title, titleWidth), titleWidth)

	gold := styles.Gold
	dim := styles.DimGray
	parts := []styles.RowPart{
		{Text: title},
		{Text: rating, Foreground: &gold},
		{Text: year},
	}
	if genres != "" {
		parts = append(parts, styles.RowPart{Text: genres, Foreground: &dim})
	}
	return styles.RenderListRow(parts, selected, width)
}

func (l MovieList) renderFooter(selected bool, width int) string {
	var text string
	switch l.footer {
	case FooterLoadMore:
		text = "+ Load more"
	case FooterLoading:
		text = Spinner(l.spinnerFrame) + " Loading..."
	case FooterRetry:
		text = "! Load failed, press enter to retry"
	}
	fg := styles.Accent
	if l.footer == FooterRetry {
		fg = styles.Red
	}
	return styles.RenderListRow([]styles.RowPart{{Text: text, Foreground: &fg}}, selected, width)
}

// FormatCount renders "n movies", used by the footer
func FormatCount(n int) string {
	if n == 1 {
		return "1 movie"
	}
	return fmt.Sprintf("%d movies", n)
}
