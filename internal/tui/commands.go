package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinedex/internal/catalog"
	"github.com/mmcdole/cinedex/internal/service"
)

const (
	pageTimeout    = 30 * time.Second
	genresTimeout  = 15 * time.Second
	detailsTimeout = 15 * time.Second
)

// Command factories for async operations

// FetchPageCmd runs a page request off the UI goroutine. A nil request
// (the controller declined to fetch) yields no command.
func FetchPageCmd(ctrl *catalog.Controller, req *catalog.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pageTimeout)
		defer cancel()

		return PageLoadedMsg{Result: ctrl.Fetch(ctx, req)}
	}
}

// LoadGenresCmd loads the genre list
func LoadGenresCmd(svc *service.GenreService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), genresTimeout)
		defer cancel()

		genres, err := svc.Genres(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading genres"}
		}
		return GenresLoadedMsg{Genres: genres}
	}
}

// LoadDetailsCmd loads details for a movie
func LoadDetailsCmd(svc *service.DetailsService, movieID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailsTimeout)
		defer cancel()

		details, err := svc.Details(ctx, movieID)
		if err != nil {
			return DetailsErrMsg{MovieID: movieID, Err: err}
		}
		return DetailsLoadedMsg{Details: details}
	}
}

// RefreshGenresCmd refetches the genre list, bypassing the cache
func RefreshGenresCmd(svc *service.GenreService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), genresTimeout)
		defer cancel()

		genres, err := svc.Refresh(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "refreshing genres"}
		}
		return GenresLoadedMsg{Genres: genres}
	}
}

// RefreshDetailsCmd refetches details for a movie, bypassing the cache
func RefreshDetailsCmd(svc *service.DetailsService, movieID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailsTimeout)
		defer cancel()

		details, err := svc.Refresh(ctx, movieID)
		if err != nil {
			return DetailsErrMsg{MovieID: movieID, Err: err}
		}
		return DetailsLoadedMsg{Details: details}
	}
}

// WaitForStateCmd waits for the next controller state
func WaitForStateCmd(ch <-chan catalog.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return StateChangedMsg{State: state}
	}
}

// ClearStatusCmd clears the footer message after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// TickCmd returns a command that sends a tick after a duration
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
