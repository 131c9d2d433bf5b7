package tui

import (
	"github.com/mmcdole/cinedex/internal/catalog"
	"github.com/mmcdole/cinedex/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg carries a finished page fetch back to Update, where it is
// merged (or discarded as stale) by the controller.
type PageLoadedMsg struct {
	Result catalog.Result
}

// StateChangedMsg signals that the catalog controller published new state
type StateChangedMsg struct {
	State catalog.State
}

// GenresLoadedMsg signals that the genre list is available
type GenresLoadedMsg struct {
	Genres []domain.Genre
}

// DetailsLoadedMsg signals that movie details have been loaded
type DetailsLoadedMsg struct {
	Details *domain.MovieDetails
}

// DetailsErrMsg signals that loading details for a movie failed
type DetailsErrMsg struct {
	MovieID int
	Err     error
}

// StatusMsg shows a transient message in the footer
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the footer message
type ClearStatusMsg struct{}

// TickMsg is sent periodically for animations
type TickMsg struct{}
