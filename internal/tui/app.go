package tui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinedex/internal/catalog"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/service"
	"github.com/mmcdole/cinedex/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StatePickingGenre
	StateHelp
)

// Layout proportions
const (
	ListColumnPercent = 60
	MinColumnWidth    = 20

	// Vertical chrome: category bar, search line, footer
	ChromeHeight = 3

	spinnerInterval = 100 * time.Millisecond
)

// Deps are the collaborators the model drives
type Deps struct {
	Catalog   *catalog.Controller
	States    <-chan catalog.State // from a ChannelObserver installed on Catalog
	Genres    *service.GenreService
	Details   *service.DetailsService
	PosterURL func(path string) string
	Logger    *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	catalog *catalog.Controller
	states  <-chan catalog.State
	genres  *service.GenreService
	details *service.DetailsService
	logger  *slog.Logger

	// UI Components
	CategoryBar components.CategoryBar
	MovieList   components.MovieList
	Inspector   components.Inspector
	GenreModal  components.GenreModal
	SearchBar   components.SearchBar

	// Latest controller snapshot
	Catalog catalog.State

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	SpinnerFrame  int
	ShowInspector bool
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := deps.Catalog.Snapshot()

	m := Model{
		State:         StateBrowsing,
		catalog:       deps.Catalog,
		states:        deps.States,
		genres:        deps.Genres,
		details:       deps.Details,
		logger:        logger,
		CategoryBar:   components.NewCategoryBar(state.Filter.Category),
		MovieList:     components.NewMovieList(),
		Inspector:     components.NewInspector(),
		GenreModal:    components.NewGenreModal(),
		SearchBar:     components.NewSearchBar(),
		Catalog:       state,
		ShowInspector: true,
	}
	if deps.Genres != nil {
		m.MovieList.SetGenreNames(deps.Genres.Names)
		m.Inspector.SetGenreNames(deps.Genres.Names)
	}
	m.Inspector.SetPosterURL(deps.PosterURL)
	m.applyState(state)
	return m
}

// Init starts the first page fetch and background loops
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		FetchPageCmd(m.catalog, m.catalog.NextPage()),
		TickCmd(spinnerInterval),
	}
	if m.genres != nil {
		cmds = append(cmds, LoadGenresCmd(m.genres))
	}
	if m.states != nil {
		cmds = append(cmds, WaitForStateCmd(m.states))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.MovieList.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(spinnerInterval)

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case StateChangedMsg:
		// The snapshot in the message may already be superseded
		m.sync()
		return m, WaitForStateCmd(m.states)

	case GenresLoadedMsg:
		m.logger.Debug("genres loaded", "count", len(msg.Genres))
		m.refreshGenreBadge()
		// Rerender rows with genre names
		m.MovieList.SetItems(m.Catalog.Visible)
		return m, nil

	case DetailsLoadedMsg:
		m.Inspector.SetDetails(msg.Details)
		return m, nil

	case DetailsErrMsg:
		m.Inspector.SetError(msg.MovieID, msg.Err)
		return m, nil

	case ErrMsg:
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Route everything else (cursor blink) to the focused input
	return m.routeToInputs(msg)
}

func (m Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	res := msg.Result
	if !m.catalog.Complete(res) {
		// Superseded by a filter change
		return m, nil
	}
	m.sync()

	if res.Err != nil {
		m.StatusMsg = "Failed to load page: " + errorText(res.Err)
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)
	}
	if m.StatusIsErr {
		m.StatusMsg = ""
		m.StatusIsErr = false
	}
	return m, nil
}

func (m Model) routeToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.State {
	case StateSearching:
		var changed bool
		m.SearchBar, cmd, changed = m.SearchBar.Update(msg)
		if changed {
			m.catalog.SetQuery(m.SearchBar.Query())
			m.sync()
		}
	case StatePickingGenre:
		m.GenreModal, cmd, _ = m.GenreModal.Update(msg)
	}
	return m, cmd
}

// === Controller plumbing ===

// sync pulls the latest snapshot from the controller
func (m *Model) sync() {
	m.applyState(m.catalog.Snapshot())
}

func (m *Model) applyState(state catalog.State) {
	prevEpoch := m.Catalog.Epoch
	m.Catalog = state

	if state.Epoch != prevEpoch {
		m.MovieList.Reset()
	}

	m.CategoryBar.SetActive(state.Filter.Category)
	m.refreshGenreBadge()

	m.MovieList.SetTitle(m.listTitle())
	m.MovieList.SetFooter(footerFor(state))
	if state.Filter.Query != "" {
		m.MovieList.SetEmptyText("No matches")
	} else {
		m.MovieList.SetEmptyText("No movies")
	}
	m.MovieList.SetItems(state.Visible)
	m.Inspector.SetMovie(m.MovieList.SelectedMovie())
}

func footerFor(state catalog.State) components.ListFooter {
	switch {
	case state.Loading:
		return components.FooterLoading
	case state.Err != nil:
		return components.FooterRetry
	case state.Exhausted:
		return components.FooterNone
	default:
		return components.FooterLoadMore
	}
}

func (m *Model) refreshGenreBadge() {
	g := m.Catalog.Filter.Genre
	if !g.Set {
		m.CategoryBar.SetGenre("")
		return
	}
	name := ""
	if m.genres != nil {
		name = m.genres.Name(g.ID)
	}
	if name == "" {
		name = "Genre " + g.String()
	}
	m.CategoryBar.SetGenre(name)
}

// setCategory switches category and returns the page 1 fetch
func (m *Model) setCategory(c domain.Category) tea.Cmd {
	req, err := m.catalog.SetCategory(c)
	if err != nil {
		m.logger.Error("invalid category", "category", c, "error", err)
		return nil
	}
	m.sync()
	return FetchPageCmd(m.catalog, req)
}

// setGenre switches genre and returns the page 1 fetch
func (m *Model) setGenre(g domain.GenreFilter) tea.Cmd {
	req := m.catalog.SetGenre(g)
	m.sync()
	return FetchPageCmd(m.catalog, req)
}

// loadMore requests the next page; it is a no-op while loading or exhausted
func (m *Model) loadMore() tea.Cmd {
	req := m.catalog.More()
	if req == nil {
		return nil
	}
	m.sync()
	return FetchPageCmd(m.catalog, req)
}

// reload drops everything loaded for the current filters and starts over.
// Cached genres and the details on display are fetched again as well.
func (m *Model) reload() tea.Cmd {
	var cmds []tea.Cmd
	if m.details != nil && m.Inspector.HasDetails() {
		cmds = append(cmds, RefreshDetailsCmd(m.details, m.Inspector.MovieID()))
	}

	m.catalog.Reset()
	req := m.catalog.NextPage()
	m.sync()
	cmds = append(cmds, FetchPageCmd(m.catalog, req))

	if m.genres != nil {
		cmds = append(cmds, RefreshGenresCmd(m.genres))
	}
	return tea.Batch(cmds...)
}

// loadDetails fetches details for the selected movie if not already shown
func (m *Model) loadDetails() tea.Cmd {
	movie := m.MovieList.SelectedMovie()
	if movie == nil || m.details == nil || m.Inspector.HasDetails() {
		return nil
	}
	m.ShowInspector = true
	m.updateLayout()
	m.Inspector.SetLoading(true)
	return LoadDetailsCmd(m.details, movie.ID)
}

func (m Model) listTitle() string {
	title := m.Catalog.Filter.Category.String()
	if q := m.Catalog.Filter.Query; q != "" {
		title += " · \"" + q + "\""
	}
	return title
}

func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "API token rejected, run cinedex --setup"
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	default:
		return err.Error()
	}
}
