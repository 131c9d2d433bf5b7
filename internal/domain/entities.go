package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category selects which catalog feed the list view browses
type Category string

const (
	CategoryPopular     Category = "popular"
	CategoryTopRated    Category = "top_rated"
	CategoryNowPlaying  Category = "now_playing"
	CategoryReleaseDate Category = "release_date"
	CategoryTrending    Category = "trending"
)

// Categories returns every category in display order
func Categories() []Category {
	return []Category{
		CategoryPopular,
		CategoryTopRated,
		CategoryNowPlaying,
		CategoryReleaseDate,
		CategoryTrending,
	}
}

// ParseCategory converts a config or CLI value into a Category.
// Anything outside the closed set is rejected.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryPopular, CategoryTopRated, CategoryNowPlaying, CategoryReleaseDate, CategoryTrending:
		return true
	}
	return false
}

// String returns the display name for the category
func (c Category) String() string {
	switch c {
	case CategoryPopular:
		return "Popular"
	case CategoryTopRated:
		return "Top Rated"
	case CategoryNowPlaying:
		return "Now Playing"
	case CategoryReleaseDate:
		return "New Releases"
	case CategoryTrending:
		return "Trending"
	default:
		return "Unknown"
	}
}

// Next returns the category after c, wrapping around
func (c Category) Next() Category {
	all := Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Prev returns the category before c, wrapping around
func (c Category) Prev() Category {
	all := Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return all[0]
}

// GenreFilter is an optional genre selection. The zero value means no genre.
type GenreFilter struct {
	ID  int
	Set bool
}

// NoGenre clears the genre selection
var NoGenre = GenreFilter{}

// WithGenre selects a single genre
func WithGenre(id int) GenreFilter {
	return GenreFilter{ID: id, Set: true}
}

func (g GenreFilter) String() string {
	if !g.Set {
		return "none"
	}
	return fmt.Sprintf("%d", g.ID)
}

// Movie is a single catalog entry as returned in list pages
type Movie struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"poster_path"`
	VoteAverage float64   `json:"vote_average"`
	ReleaseDate time.Time `json:"release_date"`
	GenreIDs    []int     `json:"genre_ids"`
}

// Year returns the release year (0 if unknown)
func (m Movie) Year() int {
	if m.ReleaseDate.IsZero() {
		return 0
	}
	return m.ReleaseDate.Year()
}

// FormattedRating returns the vote average with one decimal
func (m Movie) FormattedRating() string {
	if m.VoteAverage <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// Genre is a named TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the detail view payload for a single movie
type MovieDetails struct {
	Movie
	Overview string        `json:"overview"`
	Tagline  string        `json:"tagline"`
	Runtime  time.Duration `json:"runtime"`
	Genres   []Genre       `json:"genres"`
	Status   string        `json:"status"`
}

// FormattedRuntime returns the runtime in a human-readable format
func (d MovieDetails) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := int(d.Runtime.Hours())
	mins := int(d.Runtime.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// EndpointKind names a paged provider feed
type EndpointKind string

const (
	EndpointPopular         EndpointKind = "popular"
	EndpointTopRated        EndpointKind = "top_rated"
	EndpointNowPlaying      EndpointKind = "now_playing"
	EndpointTrendingDay     EndpointKind = "trending_day"
	EndpointDiscoverByGenre EndpointKind = "discover_by_genre"
)

// PageParams carries the per-request parameters of a paged fetch
type PageParams struct {
	Page  int
	Genre GenreFilter
}

// Page is one page of results from a paged provider feed
type Page struct {
	Items      []Movie
	Page       int
	TotalPages int
}
