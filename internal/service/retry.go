package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
)

// RetryPolicy bounds how often a request is attempted
type RetryPolicy struct {
	Attempts  int           // total attempts including the first; <1 means 1
	BaseDelay time.Duration // delay before the second attempt, doubled each time
	MaxDelay  time.Duration
}

// DefaultRetryPolicy is used for zero fields of a RetryPolicy
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  3,
	BaseDelay: 250 * time.Millisecond,
	MaxDelay:  2 * time.Second,
}

// RetrySource wraps a MovieSource, retrying temporary transport failures
// with exponential backoff. Permanent failures (401, 404, malformed
// payloads) are returned immediately.
type RetrySource struct {
	next   domain.MovieSource
	policy RetryPolicy
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrySource creates a new retrying source
func NewRetrySource(next domain.MovieSource, policy RetryPolicy, logger *slog.Logger) *RetrySource {
	if logger == nil {
		logger = slog.Default()
	}
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	return &RetrySource{next: next, policy: policy, logger: logger, sleep: sleepCtx}
}

func (r *RetrySource) FetchPage(ctx context.Context, kind domain.EndpointKind, params domain.PageParams) (domain.Page, error) {
	var page domain.Page
	err := r.do(ctx, "fetch page", func() error {
		var err error
		page, err = r.next.FetchPage(ctx, kind, params)
		return err
	})
	return page, err
}

func (r *RetrySource) FetchGenres(ctx context.Context) ([]domain.Genre, error) {
	var genres []domain.Genre
	err := r.do(ctx, "fetch genres", func() error {
		var err error
		genres, err = r.next.FetchGenres(ctx)
		return err
	})
	return genres, err
}

func (r *RetrySource) FetchDetails(ctx context.Context, movieID int) (*domain.MovieDetails, error) {
	var details *domain.MovieDetails
	err := r.do(ctx, "fetch details", func() error {
		var err error
		details, err = r.next.FetchDetails(ctx, movieID)
		return err
	})
	return details, err
}

func (r *RetrySource) do(ctx context.Context, op string, fn func() error) error {
	delay := r.policy.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || attempt >= r.policy.Attempts || !retryable(ctx, err) {
			return err
		}
		r.logger.Warn("retrying request", "op", op, "attempt", attempt, "delay", delay, "error", err)
		if serr := r.sleep(ctx, delay); serr != nil {
			return err
		}
		delay *= 2
		if delay > r.policy.MaxDelay {
			delay = r.policy.MaxDelay
		}
	}
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var te *domain.TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.Temporary()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ domain.MovieSource = (*RetrySource)(nil)
