package components

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMovies(ids ...int) []domain.Movie {
	out := make([]domain.Movie, len(ids))
	for i, id := range ids {
		out[i] = domain.Movie{ID: id, Title: "Movie", VoteAverage: 7.5}
	}
	return out
}

func press(l MovieList, t tea.KeyType) MovieList {
	l, _ = l.Update(tea.KeyMsg{Type: t})
	return l
}

func TestMovieListFooterRow(t *testing.T) {
	l := NewMovieList()
	l.SetSize(60, 20)
	l.SetFooter(FooterLoadMore)
	l.SetItems(sampleMovies(1, 2))

	l = press(l, tea.KeyEnd)
	assert.True(t, l.OnFooter())
	assert.Nil(t, l.SelectedMovie())

	// Without a footer the last movie is the last row
	l.SetFooter(FooterNone)
	assert.False(t, l.OnFooter())
	require.NotNil(t, l.SelectedMovie())
	assert.Equal(t, 2, l.SelectedMovie().ID)
}

func TestMovieListKeepsSelectionAcrossAppend(t *testing.T) {
	l := NewMovieList()
	l.SetSize(60, 20)
	l.SetFooter(FooterLoadMore)
	l.SetItems(sampleMovies(1, 2, 3))
	l = press(l, tea.KeyDown)

	l.SetItems(sampleMovies(1, 2, 3, 4, 5))
	assert.Equal(t, 2, l.SelectedMovie().ID)

	// Narrowed by a query: the selected movie disappears
	l.SetItems(sampleMovies(4, 5))
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestMovieListFirstPageSelectsFirstMovie(t *testing.T) {
	l := NewMovieList()
	l.SetSize(60, 20)
	l.SetFooter(FooterLoading)
	l.SetItems(nil)

	l.SetFooter(FooterLoadMore)
	l.SetItems(sampleMovies(7, 8))
	assert.False(t, l.OnFooter())
	require.NotNil(t, l.SelectedMovie())
	assert.Equal(t, 7, l.SelectedMovie().ID)
}

func TestMovieListStaysOnFooterAfterAppend(t *testing.T) {
	l := NewMovieList()
	l.SetSize(60, 20)
	l.SetFooter(FooterLoadMore)
	l.SetItems(sampleMovies(1, 2))
	l = press(l, tea.KeyEnd)

	l.SetFooter(FooterLoading)
	l.SetItems(sampleMovies(1, 2, 3))
	assert.True(t, l.OnFooter())
	assert.Equal(t, 3, l.SelectedIndex())
}

func TestMovieListView(t *testing.T) {
	l := NewMovieList()
	l.SetSize(60, 12)
	l.SetTitle("Popular")
	l.SetFooter(FooterRetry)
	l.SetItems([]domain.Movie{{ID: 1, Title: "Heat", VoteAverage: 8.3}})

	view := l.View()
	assert.Contains(t, view, "Popular")
	assert.Contains(t, view, "Heat")
	assert.Contains(t, view, "8.3")
	assert.Contains(t, view, "retry")
}

func TestGenreModalFuzzyFilter(t *testing.T) {
	m := NewGenreModal()
	m.Show([]domain.Genre{
		{ID: 28, Name: "Action"},
		{ID: 878, Name: "Science Fiction"},
		{ID: 53, Name: "Thriller"},
	}, domain.WithGenre(53))
	require.True(t, m.IsVisible())

	for _, r := range "scifi" {
		m, _, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, []string{"Science Fiction"}, m.Matches())

	m, _, chosen := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, chosen)
	assert.Equal(t, domain.WithGenre(878), *chosen)
	assert.False(t, m.IsVisible())
}

func TestGenreModalAllGenres(t *testing.T) {
	m := NewGenreModal()
	m.Show([]domain.Genre{{ID: 28, Name: "Action"}}, domain.WithGenre(28))

	// Cursor starts on the active genre; moving up selects "All genres"
	m, _, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, _, chosen := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, chosen)
	assert.Equal(t, domain.NoGenre, *chosen)
}

func TestSearchBarEditing(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	s, _, changed := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.True(t, changed)
	assert.Equal(t, "h", s.Query())

	s, _, changed = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, changed)
	assert.False(t, s.Focused())
	assert.True(t, s.Active())

	s.Focus()
	s, _, changed = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, changed)
	assert.Equal(t, "", s.Query())
	assert.False(t, s.Active())
}

func TestInspectorIgnoresDetailsForOtherMovie(t *testing.T) {
	i := NewInspector()
	i.SetSize(50, 20)
	i.SetMovie(&domain.Movie{ID: 1, Title: "Heat"})
	i.SetLoading(true)

	i.SetDetails(&domain.MovieDetails{Movie: domain.Movie{ID: 2}})
	assert.False(t, i.HasDetails())

	i.SetError(2, errors.New("boom"))
	assert.Contains(t, i.View(), "Loading details")

	i.SetError(1, errors.New("boom"))
	assert.Contains(t, i.View(), "boom")
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 movies", FormatCount(0))
	assert.Equal(t, "1 movie", FormatCount(1))
	assert.Equal(t, "20 movies", FormatCount(20))
}
