package catalog

import "github.com/mmcdole/cinedex/internal/domain"

// State is a read-only snapshot of the controller for the presentation layer
type State struct {
	Rev         uint64 // orders published snapshots; larger is newer
	Filter      Filter
	Epoch       Epoch
	Items       []domain.Movie // everything accumulated in this epoch
	Visible     []domain.Movie // Items narrowed by Filter.Query
	Page        int            // page of the current or most recent fetch
	PagesLoaded int
	Loading     bool
	Exhausted   bool
	Err         error // last fetch failure, cleared by the next success or epoch change
}

// HasMore reports whether further pages may exist for this epoch
func (s State) HasMore() bool {
	return !s.Exhausted
}

// CanLoadMore reports whether a "load more" command would issue a fetch
func (s State) CanLoadMore() bool {
	return !s.Exhausted && !s.Loading
}

// Observer receives state snapshots after every controller change.
// OnChange is called without the controller lock held, so calls from
// different goroutines may arrive out of order. Compare State.Rev to
// discard a snapshot older than one already seen.
type Observer interface {
	OnChange(state State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(State)

func (f ObserverFunc) OnChange(state State) { f(state) }

// NoOpObserver discards state updates
type NoOpObserver struct{}

func (NoOpObserver) OnChange(State) {}
