package domain

import "time"

// Store handles local cache (BoltDB + memory).
// Only provider metadata that is stable across sessions is cached; list
// pages are never persisted.
type Store interface {
	// === Genres ===
	GetGenres() ([]Genre, time.Time, bool)
	SaveGenres(genres []Genre) error

	// === Details ===
	GetDetails(movieID int) (*MovieDetails, time.Time, bool)
	SaveDetails(details *MovieDetails) error

	// === Invalidation ===
	InvalidateGenres()
	InvalidateDetails(movieID int)
	InvalidateAll()

	Close() error
}
