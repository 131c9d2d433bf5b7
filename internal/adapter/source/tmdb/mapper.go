package tmdb

import (
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
)

// maxPages is the deepest page TMDB will serve for any list endpoint;
// requests beyond it fail with 422 even when total_pages is larger.
const maxPages = 500

const imageBaseURL = "https://image.tmdb.org/t/p/"

// PosterURL builds an image URL for a poster path ("w500", "original", ...)
func PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return imageBaseURL + size + path
}

// MapPage converts a paged response into a domain page
func MapPage(resp *PagedResponse) domain.Page {
	items := make([]domain.Movie, 0, len(resp.Results))
	for _, dto := range resp.Results {
		items = append(items, MapMovie(dto))
	}
	total := resp.TotalPages
	if total > maxPages {
		total = maxPages
	}
	return domain.Page{Items: items, Page: resp.Page, TotalPages: total}
}

// MapMovie converts a list entry into a domain movie
func MapMovie(dto MovieDTO) domain.Movie {
	title := dto.Title
	if title == "" {
		title = dto.OriginalTitle
	}
	return domain.Movie{
		ID:          dto.ID,
		Title:       title,
		PosterPath:  dto.PosterPath,
		VoteAverage: dto.VoteAverage,
		ReleaseDate: parseDate(dto.ReleaseDate),
		GenreIDs:    dto.GenreIDs,
	}
}

// MapGenres converts the genre list response
func MapGenres(dtos []GenreDTO) []domain.Genre {
	genres := make([]domain.Genre, len(dtos))
	for i, g := range dtos {
		genres[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return genres
}

// MapDetails converts a details response
func MapDetails(dto *MovieDetailsDTO) *domain.MovieDetails {
	genres := MapGenres(dto.Genres)
	ids := make([]int, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return &domain.MovieDetails{
		Movie: domain.Movie{
			ID:          dto.ID,
			Title:       dto.Title,
			PosterPath:  dto.PosterPath,
			VoteAverage: dto.VoteAverage,
			ReleaseDate: parseDate(dto.ReleaseDate),
			GenreIDs:    ids,
		},
		Overview: dto.Overview,
		Tagline:  dto.Tagline,
		Runtime:  time.Duration(dto.Runtime) * time.Minute,
		Genres:   genres,
		Status:   dto.Status,
	}
}

// parseDate parses TMDB's YYYY-MM-DD dates; empty or malformed dates map to the zero time
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
