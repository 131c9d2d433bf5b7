package catalog

import "github.com/mmcdole/cinedex/internal/domain"

// Filter holds the three independent filter dimensions of the list view.
// Category and Genre define the epoch; Query only narrows what is shown.
type Filter struct {
	Query    string
	Category domain.Category
	Genre    domain.GenreFilter
}

// Epoch identifies one span during which Category and Genre are held constant.
// Seq increases on every reset so that returning to an earlier
// (category, genre) pair still yields a distinct epoch.
type Epoch struct {
	Seq      uint64
	Category domain.Category
	Genre    domain.GenreFilter
}

func (f Filter) sameEpoch(other Filter) bool {
	return f.Category == other.Category && f.Genre == other.Genre
}
