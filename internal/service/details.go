package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/cinedex/internal/domain"
)

// DetailsService fetches movie details, caching them in the store.
// Details rarely change, so cached entries never expire on their own.
type DetailsService struct {
	source domain.DetailsSource
	store  domain.Store
	logger *slog.Logger
}

// NewDetailsService creates a new details service
func NewDetailsService(source domain.DetailsSource, store domain.Store, logger *slog.Logger) *DetailsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailsService{source: source, store: store, logger: logger}
}

// Details returns the details for a movie
func (s *DetailsService) Details(ctx context.Context, movieID int) (*domain.MovieDetails, error) {
	if d, _, ok := s.store.GetDetails(movieID); ok {
		s.logger.Debug("details cache hit", "movieID", movieID)
		return d, nil
	}

	d, err := s.source.FetchDetails(ctx, movieID)
	if err != nil {
		s.logger.Error("failed to fetch details", "error", err, "movieID", movieID)
		return nil, err
	}
	if err := s.store.SaveDetails(d); err != nil {
		s.logger.Error("failed to save details", "error", err, "movieID", movieID)
	}
	return d, nil
}

// Refresh drops the cached entry and fetches it again
func (s *DetailsService) Refresh(ctx context.Context, movieID int) (*domain.MovieDetails, error) {
	s.store.InvalidateDetails(movieID)
	return s.Details(ctx, movieID)
}
