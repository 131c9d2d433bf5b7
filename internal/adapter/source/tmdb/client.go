package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Cinedex/1.0"
)

// Client implements domain.CatalogSource and domain.DetailsSource for TMDB
type Client struct {
	baseURL    string
	token      string
	language   string
	region     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Options tunes a Client beyond the required base URL and token
type Options struct {
	Language          string
	Region            string
	RequestsPerSecond float64 // 0 disables client-side rate limiting
	HTTPClient        *http.Client
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, token string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		language:   opts.Language,
		region:     opts.Region,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// endpointPaths maps feeds onto TMDB paths
var endpointPaths = map[domain.EndpointKind]string{
	domain.EndpointPopular:         "/movie/popular",
	domain.EndpointTopRated:        "/movie/top_rated",
	domain.EndpointNowPlaying:      "/movie/now_playing",
	domain.EndpointTrendingDay:     "/trending/movie/day",
	domain.EndpointDiscoverByGenre: "/discover/movie",
}

// FetchPage returns one page of a movie list feed
func (c *Client) FetchPage(ctx context.Context, kind domain.EndpointKind, params domain.PageParams) (domain.Page, error) {
	const op = "fetch page"

	path, ok := endpointPaths[kind]
	if !ok {
		return domain.Page{}, &domain.TransportError{Op: op, Err: fmt.Errorf("unknown endpoint %q", kind)}
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if kind == domain.EndpointDiscoverByGenre {
		if params.Genre.Set {
			query.Set("with_genres", strconv.Itoa(params.Genre.ID))
		}
		query.Set("sort_by", "popularity.desc")
	}
	if c.region != "" && kind != domain.EndpointTrendingDay {
		query.Set("region", c.region)
	}

	var resp PagedResponse
	if err := c.get(ctx, op, path, query, &resp); err != nil {
		return domain.Page{}, err
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	return MapPage(&resp), nil
}

// FetchGenres returns the movie genre list
func (c *Client) FetchGenres(ctx context.Context) ([]domain.Genre, error) {
	var resp GenreListResponse
	if err := c.get(ctx, "fetch genres", "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// FetchDetails returns the detail view payload for a movie
func (c *Client) FetchDetails(ctx context.Context, movieID int) (*domain.MovieDetails, error) {
	var resp MovieDetailsDTO
	path := fmt.Sprintf("/movie/%d", movieID)
	if err := c.get(ctx, "fetch details", path, nil, &resp); err != nil {
		return nil, err
	}
	return MapDetails(&resp), nil
}

// get performs an authenticated GET and decodes the JSON body into dest.
// Every failure is returned as *domain.TransportError.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, dest interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" {
		query.Set("language", c.language)
	}
	useBearer := isBearerToken(c.token)
	if !useBearer && c.token != "" {
		query.Set("api_key", c.token)
	}

	reqURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if useBearer {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}

	c.logger.Debug("tmdb request", "path", path, "query", redact(query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode, "body", string(body))
		return &domain.TransportError{Op: op, Status: resp.StatusCode, Err: statusError(resp.StatusCode, body)}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(body))
		return &domain.TransportError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err),
		}
	}
	return nil
}

// statusError maps a non-2xx status onto a domain error, keeping TMDB's message
func statusError(status int, body []byte) error {
	var base error
	switch status {
	case http.StatusUnauthorized:
		base = domain.ErrUnauthorized
	case http.StatusNotFound:
		base = domain.ErrNotFound
	default:
		base = errors.New(http.StatusText(status))
	}

	var apiErr ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.StatusMessage != "" {
		return fmt.Errorf("%w: %s", base, apiErr.StatusMessage)
	}
	return base
}

// isBearerToken reports whether token is a v4 read access token (a JWT)
// rather than a v3 api key.
func isBearerToken(token string) bool {
	return strings.Count(token, ".") == 2
}

func redact(query url.Values) string {
	if query.Get("api_key") == "" {
		return query.Encode()
	}
	clone := url.Values{}
	for k, v := range query {
		clone[k] = v
	}
	clone.Set("api_key", "***")
	return clone.Encode()
}
