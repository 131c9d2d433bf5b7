package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
)

// GenreService serves the genre list from the store, refreshing it from the
// source once it is older than the TTL.
type GenreService struct {
	source domain.CatalogSource
	store  domain.Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	byID   map[int]string
	genres []domain.Genre
}

// NewGenreService creates a new genre service. A ttl of zero never expires.
func NewGenreService(source domain.CatalogSource, store domain.Store, ttl time.Duration, logger *slog.Logger) *GenreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenreService{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		byID:   make(map[int]string),
	}
}

// Genres returns the genre list, using the cache when fresh
func (s *GenreService) Genres(ctx context.Context) ([]domain.Genre, error) {
	cached, fetchedAt, ok := s.store.GetGenres()
	if ok && s.fresh(fetchedAt) {
		s.logger.Debug("genres cache hit", "count", len(cached))
		s.remember(cached)
		return cached, nil
	}

	genres, err := s.source.FetchGenres(ctx)
	if err != nil {
		if ok {
			// Serve stale data rather than nothing
			s.logger.Warn("genre refresh failed, using stale cache", "error", err)
			s.remember(cached)
			return cached, nil
		}
		s.logger.Error("failed to fetch genres", "error", err)
		return nil, err
	}

	if err := s.store.SaveGenres(genres); err != nil {
		s.logger.Error("failed to save genres", "error", err)
	}
	s.logger.Debug("fetched genres", "count", len(genres))
	s.remember(genres)
	return genres, nil
}

// Refresh drops the cached list and fetches it again
func (s *GenreService) Refresh(ctx context.Context) ([]domain.Genre, error) {
	s.store.InvalidateGenres()
	return s.Genres(ctx)
}

// Name returns the display name of a genre, or "" when unknown
func (s *GenreService) Name(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// Names maps genre ids to display names, skipping unknown ids
func (s *GenreService) Names(ids []int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := s.byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Loaded returns the last list served, without touching store or source
func (s *GenreService) Loaded() []domain.Genre {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genres
}

func (s *GenreService) fresh(fetchedAt time.Time) bool {
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(fetchedAt) < s.ttl
}

func (s *GenreService) remember(genres []domain.Genre) {
	byID := make(map[int]string, len(genres))
	for _, g := range genres {
		byID[g.ID] = g.Name
	}
	s.mu.Lock()
	s.byID = byID
	s.genres = genres
	s.mu.Unlock()
}
