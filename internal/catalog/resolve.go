package catalog

import "github.com/mmcdole/cinedex/internal/domain"

// Target is a resolved provider query: which feed to hit with which parameters
type Target struct {
	Kind   domain.EndpointKind
	Params domain.PageParams
}

// Resolve maps the active filters and page number onto a provider feed.
//
// Release-date browsing reuses the now-playing feed and re-sorts each page
// locally. A selected genre overrides the category entirely since the provider
// cannot combine category feeds with genre filtering.
func Resolve(category domain.Category, genre domain.GenreFilter, page int) Target {
	if genre.Set {
		return Target{
			Kind:   domain.EndpointDiscoverByGenre,
			Params: domain.PageParams{Page: page, Genre: genre},
		}
	}

	var kind domain.EndpointKind
	switch category {
	case domain.CategoryTopRated:
		kind = domain.EndpointTopRated
	case domain.CategoryNowPlaying, domain.CategoryReleaseDate:
		kind = domain.EndpointNowPlaying
	case domain.CategoryTrending:
		kind = domain.EndpointTrendingDay
	default:
		kind = domain.EndpointPopular
	}
	return Target{Kind: kind, Params: domain.PageParams{Page: page}}
}
