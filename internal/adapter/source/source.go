package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/cinedex/internal/adapter"
	"github.com/mmcdole/cinedex/internal/adapter/source/tmdb"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/service"
)

// SourceConfig contains the configuration needed to create a MovieSource
type SourceConfig struct {
	URL               string
	Token             string
	Language          string
	Region            string
	RequestsPerSecond float64
	Retries           int // transient failures retried per request; 0 disables
}

// NewClient creates a MovieSource backed by TMDB, wrapped with retries
// when cfg.Retries is positive.
func NewClient(cfg *SourceConfig, logger *slog.Logger) (domain.MovieSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("api URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("api token is required")
	}

	client := tmdb.NewClient(cfg.URL, cfg.Token, tmdb.Options{
		Language:          cfg.Language,
		Region:            cfg.Region,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, logger)

	if cfg.Retries <= 0 {
		return client, nil
	}
	return service.NewRetrySource(client, service.RetryPolicy{Attempts: cfg.Retries + 1}, logger), nil
}

// NewClientFromConfig creates a MovieSource from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.MovieSource, error) {
	return NewClient(&SourceConfig{
		URL:               cfg.TMDB.BaseURL,
		Token:             cfg.TMDB.Token,
		Language:          cfg.TMDB.Language,
		Region:            cfg.TMDB.Region,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Retries:           cfg.TMDB.Retries,
	}, logger)
}
