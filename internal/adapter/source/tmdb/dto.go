package tmdb

// PagedResponse is the envelope for every paged movie list endpoint
// (/movie/popular, /trending/movie/day, /discover/movie, ...)
type PagedResponse struct {
	Page         int        `json:"page"`
	Results      []MovieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// MovieDTO is a list entry as returned in paged results
type MovieDTO struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	GenreIDs      []int   `json:"genre_ids"`
	Popularity    float64 `json:"popularity"`
	Adult         bool    `json:"adult"`
}

// GenreDTO is a genre entry
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is returned by /genre/movie/list
type GenreListResponse struct {
	Genres []GenreDTO `json:"genres"`
}

// MovieDetailsDTO is returned by /movie/{id}
type MovieDetailsDTO struct {
	ID          int        `json:"id"`
	IMDBID      string     `json:"imdb_id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	Tagline     string     `json:"tagline"`
	PosterPath  string     `json:"poster_path"`
	ReleaseDate string     `json:"release_date"`
	Runtime     int        `json:"runtime"` // minutes
	VoteAverage float64    `json:"vote_average"`
	Genres      []GenreDTO `json:"genres"`
	Status      string     `json:"status"`
}

// ErrorResponse is the body TMDB sends with non-2xx statuses
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
