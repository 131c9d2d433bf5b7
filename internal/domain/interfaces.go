package domain

import "context"

// CatalogSource is the paged data provider consumed by the catalog controller.
// All failures are reported as *TransportError.
type CatalogSource interface {
	// FetchPage returns one page of the given feed
	FetchPage(ctx context.Context, kind EndpointKind, params PageParams) (Page, error)

	// FetchGenres returns the genre list used to label items
	FetchGenres(ctx context.Context) ([]Genre, error)
}

// DetailsSource provides the detail view payload for a single movie
type DetailsSource interface {
	FetchDetails(ctx context.Context, movieID int) (*MovieDetails, error)
}

// MovieSource combines everything the TUI needs from a provider
type MovieSource interface {
	CatalogSource
	DetailsSource
}
