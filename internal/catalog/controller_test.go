package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	Kind   domain.EndpointKind
	Params domain.PageParams
}

// fakeSource serves canned pages keyed by endpoint kind. When gate is set,
// each FetchPage blocks until a value is received on it.
type fakeSource struct {
	mu      sync.Mutex
	pages   map[domain.EndpointKind][]domain.Page
	errs    map[int]error // page number -> error to return once
	calls   []fetchCall
	gate    chan struct{}
	started chan fetchCall
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: make(map[domain.EndpointKind][]domain.Page),
		errs:  make(map[int]error),
	}
}

func (f *fakeSource) add(kind domain.EndpointKind, totalPages int, items ...[]domain.Movie) {
	for i, page := range items {
		f.pages[kind] = append(f.pages[kind], domain.Page{Items: page, Page: i + 1, TotalPages: totalPages})
	}
}

func (f *fakeSource) FetchPage(ctx context.Context, kind domain.EndpointKind, params domain.PageParams) (domain.Page, error) {
	f.mu.Lock()
	call := fetchCall{Kind: kind, Params: params}
	f.calls = append(f.calls, call)
	gate, started := f.gate, f.started
	err, failing := f.errs[params.Page]
	delete(f.errs, params.Page)
	f.mu.Unlock()

	if started != nil {
		started <- call
	}
	if gate != nil {
		<-gate
	}
	if failing {
		return domain.Page{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	pages := f.pages[kind]
	if params.Page-1 < len(pages) {
		return pages[params.Page-1], nil
	}
	return domain.Page{Page: params.Page, TotalPages: len(pages)}, nil
}

func (f *fakeSource) FetchGenres(context.Context) ([]domain.Genre, error) {
	return nil, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSource) lastCall() fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func movies(prefix string, n int) []domain.Movie {
	out := make([]domain.Movie, n)
	for i := range out {
		out[i] = domain.Movie{ID: i + 1, Title: fmt.Sprintf("%s %d", prefix, i+1)}
	}
	return out
}

func titles(items []domain.Movie) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.Title
	}
	return out
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStartLoadsFirstPage(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 3, movies("p1", 2), movies("p2", 2), movies("p3", 2))
	c := New(src, domain.CategoryPopular)

	require.NoError(t, c.Start(context.Background()))

	state := c.Snapshot()
	assert.Equal(t, []string{"p1 1", "p1 2"}, titles(state.Items))
	assert.Equal(t, 1, state.Page)
	assert.False(t, state.Loading)
	assert.False(t, state.Exhausted)
	assert.Equal(t, fetchCall{Kind: domain.EndpointPopular, Params: domain.PageParams{Page: 1}}, src.lastCall())
}

func TestAppendOrderAcrossPages(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointTopRated, 3, movies("a", 2), movies("b", 1), movies("c", 2))
	c := New(src, domain.CategoryTopRated)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.RequestMore(ctx))
	require.NoError(t, c.RequestMore(ctx))

	state := c.Snapshot()
	assert.Equal(t, []string{"a 1", "a 2", "b 1", "c 1", "c 2"}, titles(state.Items))
	assert.Equal(t, 3, state.PagesLoaded)
	assert.True(t, state.Exhausted)
}

func TestNoDeduplicationByID(t *testing.T) {
	src := newFakeSource()
	dup := []domain.Movie{{ID: 7, Title: "Same"}}
	src.add(domain.EndpointPopular, 2, dup, dup)
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.RequestMore(ctx))

	assert.Len(t, c.Snapshot().Items, 2)
}

func TestExhaustedOnLastPage(t *testing.T) {
	// Scenario A: now playing, one page of 20 items
	src := newFakeSource()
	src.add(domain.EndpointNowPlaying, 1, movies("np", 20))
	c := New(src, domain.CategoryNowPlaying)

	require.NoError(t, c.Start(context.Background()))

	state := c.Snapshot()
	assert.Len(t, state.Items, 20)
	assert.True(t, state.Exhausted)
	assert.False(t, state.HasMore())
	assert.False(t, state.CanLoadMore())
}

func TestExhaustedOnEmptyPage(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 10, movies("p", 3), nil)
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	assert.False(t, c.Snapshot().Exhausted)

	require.NoError(t, c.RequestMore(ctx))
	state := c.Snapshot()
	assert.True(t, state.Exhausted)
	assert.Len(t, state.Items, 3)
}

func TestExhaustionIsMonotonic(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 1, movies("p", 2))
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	before := c.Snapshot()
	require.True(t, before.Exhausted)

	for i := 0; i < 3; i++ {
		assert.Nil(t, c.More())
		assert.NoError(t, c.RequestMore(ctx))
	}

	assert.Equal(t, 1, src.callCount())
	assert.Equal(t, before.Items, c.Snapshot().Items)
	assert.True(t, c.Snapshot().Exhausted)
}

func TestReleaseDateSortsEachPage(t *testing.T) {
	// Scenario B
	src := newFakeSource()
	src.add(domain.EndpointNowPlaying, 1, []domain.Movie{
		{ID: 1, Title: "Jan", ReleaseDate: date("2024-01-05")},
		{ID: 2, Title: "Mar", ReleaseDate: date("2024-03-01")},
		{ID: 3, Title: "Feb", ReleaseDate: date("2024-02-10")},
	})
	c := New(src, domain.CategoryReleaseDate)

	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, domain.EndpointNowPlaying, src.lastCall().Kind)
	assert.Equal(t, []string{"Mar", "Feb", "Jan"}, titles(c.Snapshot().Items))
}

func TestReleaseDateSortIsPageLocal(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointNowPlaying, 2,
		[]domain.Movie{
			{ID: 1, Title: "A", ReleaseDate: date("2024-01-01")},
			{ID: 2, Title: "B", ReleaseDate: date("2024-02-01")},
		},
		[]domain.Movie{
			{ID: 3, Title: "C", ReleaseDate: date("2024-05-01")},
			{ID: 4, Title: "D"},
			{ID: 5, Title: "E", ReleaseDate: date("2023-12-01")},
		},
	)
	c := New(src, domain.CategoryReleaseDate)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.RequestMore(ctx))

	// Page two is newer than page one but is not merged ahead of it
	assert.Equal(t, []string{"B", "A", "C", "E", "D"}, titles(c.Snapshot().Items))
}

func TestOtherCategoriesKeepProviderOrder(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointNowPlaying, 1, []domain.Movie{
		{ID: 1, Title: "Jan", ReleaseDate: date("2024-01-05")},
		{ID: 2, Title: "Mar", ReleaseDate: date("2024-03-01")},
	})
	c := New(src, domain.CategoryNowPlaying)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, []string{"Jan", "Mar"}, titles(c.Snapshot().Items))
}

func TestGenreOverridesCategory(t *testing.T) {
	// Scenario C
	src := newFakeSource()
	src.add(domain.EndpointPopular, 5, movies("pop", 2))
	src.add(domain.EndpointDiscoverByGenre, 5, movies("action", 2))
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	req := c.SetGenre(domain.WithGenre(28))
	require.NotNil(t, req)
	require.NoError(t, c.Run(ctx, req))

	assert.Equal(t, fetchCall{
		Kind:   domain.EndpointDiscoverByGenre,
		Params: domain.PageParams{Page: 1, Genre: domain.WithGenre(28)},
	}, src.lastCall())
	assert.Equal(t, []string{"action 1", "action 2"}, titles(c.Snapshot().Items))
}

func TestClearingGenreReturnsToCategoryFeed(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointTrendingDay, 1, movies("trend", 1))
	src.add(domain.EndpointDiscoverByGenre, 1, movies("genre", 1))
	c := New(src, domain.CategoryTrending, WithGenre(domain.WithGenre(12)))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, domain.EndpointDiscoverByGenre, src.lastCall().Kind)

	require.NoError(t, c.Run(ctx, c.SetGenre(domain.NoGenre)))
	assert.Equal(t, domain.EndpointTrendingDay, src.lastCall().Kind)
	assert.Equal(t, []string{"trend 1"}, titles(c.Snapshot().Items))
}

func TestLoadGuardWhileLoading(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 3, movies("p1", 1), movies("p2", 1))
	c := New(src, domain.CategoryPopular)

	req := c.NextPage()
	require.NotNil(t, req)
	before := c.Snapshot()
	require.True(t, before.Loading)

	// Further calls while loading have no effect
	assert.Nil(t, c.NextPage())
	assert.Nil(t, c.More())
	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, 0, src.callCount())

	require.NoError(t, c.Run(context.Background(), req))
	assert.Equal(t, 1, src.callCount())
}

func TestRequestMoreTwiceIssuesOneFetch(t *testing.T) {
	// Scenario D
	src := newFakeSource()
	src.add(domain.EndpointPopular, 5, movies("p1", 1), movies("p2", 1), movies("p3", 1))
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	src.mu.Lock()
	src.gate = make(chan struct{})
	src.started = make(chan fetchCall, 4)
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.RequestMore(ctx) }()

	first := <-src.started
	assert.Equal(t, 2, first.Params.Page)

	// Second press arrives before the first fetch resolves
	assert.NoError(t, c.RequestMore(ctx))

	src.gate <- struct{}{}
	require.NoError(t, <-done)

	assert.Equal(t, 2, src.callCount())
	assert.Len(t, src.started, 0)
	assert.Equal(t, []string{"p1 1", "p2 1"}, titles(c.Snapshot().Items))
}

func TestEpochResetClearsState(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 1, movies("p", 3))
	src.add(domain.EndpointTopRated, 4, movies("t", 2))
	c := New(src, domain.CategoryPopular)
	require.NoError(t, c.Start(context.Background()))
	require.True(t, c.Snapshot().Exhausted)

	var seen []State
	c.observer = ObserverFunc(func(s State) { seen = append(seen, s) })

	req, err := c.SetCategory(domain.CategoryTopRated)
	require.NoError(t, err)
	require.NotNil(t, req)

	// The new epoch starts empty with the page 1 fetch pending
	require.Len(t, seen, 1)
	state := seen[0]
	assert.Empty(t, state.Items)
	assert.Equal(t, 1, state.Page)
	assert.False(t, state.Exhausted)
	assert.True(t, state.Loading)
	assert.Equal(t, 1, req.Page())
	assert.Equal(t, domain.EndpointTopRated, req.Target.Kind)
	assert.Equal(t, 1, src.callCount())
}

func TestResetWithoutFetch(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 1, movies("p", 3))
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	epoch := c.Epoch()

	c.Reset()

	state := c.Snapshot()
	assert.Empty(t, state.Items)
	assert.Equal(t, 1, state.Page)
	assert.False(t, state.Exhausted)
	assert.False(t, state.Loading)
	assert.Greater(t, c.Epoch().Seq, epoch.Seq)

	require.NoError(t, c.LoadNextPage(ctx))
	assert.Len(t, c.Snapshot().Items, 3)
}

func TestSameCategoryIsNotAnEpochChange(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 2, movies("p", 2))
	c := New(src, domain.CategoryPopular)
	require.NoError(t, c.Start(context.Background()))
	epoch := c.Epoch()

	req, err := c.SetCategory(domain.CategoryPopular)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Nil(t, c.SetGenre(domain.NoGenre))
	assert.Equal(t, epoch, c.Epoch())
	assert.Len(t, c.Snapshot().Items, 2)
}

func TestInvalidCategoryRejected(t *testing.T) {
	c := New(newFakeSource(), domain.CategoryPopular)

	req, err := c.SetCategory(domain.Category("upcoming"))
	assert.Error(t, err)
	assert.Nil(t, req)
	assert.Equal(t, domain.CategoryPopular, c.Filter().Category)
}

func TestQueryDoesNotTouchItems(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 2, []domain.Movie{
		{ID: 1, Title: "Batman"},
		{ID: 2, Title: "Catwoman"},
		{ID: 3, Title: "Bat Out of Hell"},
	})
	c := New(src, domain.CategoryPopular)
	require.NoError(t, c.Start(context.Background()))
	before := c.Snapshot()

	for _, q := range []string{"bat", "", "CAT", "zzz"} {
		c.SetQuery(q)
		state := c.Snapshot()
		assert.Equal(t, before.Items, state.Items)
		assert.Equal(t, before.Epoch, state.Epoch)
		assert.Equal(t, before.Page, state.Page)
	}
	assert.Equal(t, 1, src.callCount())

	// Scenario E
	c.SetQuery("bat")
	assert.Equal(t, []string{"Batman", "Bat Out of Hell"}, titles(c.Snapshot().Visible))
}

func TestStaleResponseDiscarded(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 3, movies("pop", 2))
	src.add(domain.EndpointDiscoverByGenre, 3, movies("horror", 2))
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()

	stale := c.NextPage()
	require.NotNil(t, stale)

	fresh := c.SetGenre(domain.WithGenre(27))
	require.NotNil(t, fresh)

	// The old epoch's response arrives after the new epoch started
	res := c.Fetch(ctx, stale)
	assert.False(t, c.Complete(res))
	assert.Empty(t, c.Snapshot().Items)
	assert.True(t, c.Snapshot().Loading)

	require.NoError(t, c.Run(ctx, fresh))
	assert.Equal(t, []string{"horror 1", "horror 2"}, titles(c.Snapshot().Items))
}

func TestStaleAcrossReturnToSameFilters(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 3, movies("pop", 2))
	src.add(domain.EndpointTopRated, 3, movies("top", 2))
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()

	stale := c.NextPage()
	_, err := c.SetCategory(domain.CategoryTopRated)
	require.NoError(t, err)
	back, err := c.SetCategory(domain.CategoryPopular)
	require.NoError(t, err)

	// Same (category, genre) as the stale request but a later epoch
	assert.Equal(t, ErrStale, c.Run(ctx, stale))
	assert.Empty(t, c.Snapshot().Items)

	require.NoError(t, c.Run(ctx, back))
	assert.Len(t, c.Snapshot().Items, 2)
}

func TestEpochChangeCancelsInflightFetch(t *testing.T) {
	src := &blockingSource{}
	c := New(src, domain.CategoryPopular)

	stale := c.NextPage()
	done := make(chan Result, 1)
	go func() { done <- c.Fetch(context.Background(), stale) }()

	_, err := c.SetCategory(domain.CategoryTrending)
	require.NoError(t, err)

	select {
	case res := <-done:
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.False(t, c.Complete(res))
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned fetch was not cancelled")
	}
}

type blockingSource struct{}

func (blockingSource) FetchPage(ctx context.Context, _ domain.EndpointKind, _ domain.PageParams) (domain.Page, error) {
	<-ctx.Done()
	return domain.Page{}, &domain.TransportError{Op: "fetch page", Err: ctx.Err()}
}

func (blockingSource) FetchGenres(context.Context) ([]domain.Genre, error) { return nil, nil }

func TestFailureKeepsItemsAndAllowsRetry(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 3, movies("p1", 2), movies("p2", 2), movies("p3", 2))
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	transportErr := &domain.TransportError{Op: "fetch page", Status: 503, Err: errors.New("unavailable")}
	src.errs[2] = transportErr

	err := c.RequestMore(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsTransportError(err))

	state := c.Snapshot()
	assert.Equal(t, []string{"p1 1", "p1 2"}, titles(state.Items))
	assert.False(t, state.Loading)
	assert.False(t, state.Exhausted)
	assert.Equal(t, transportErr, state.Err)

	// Retrying asks for the same page again
	require.NoError(t, c.RequestMore(ctx))
	assert.Equal(t, 2, src.lastCall().Params.Page)
	state = c.Snapshot()
	assert.Nil(t, state.Err)
	assert.Equal(t, []string{"p1 1", "p1 2", "p2 1", "p2 2"}, titles(state.Items))
}

func TestFirstPageFailureRetriesPageOne(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 2, movies("p1", 1))
	src.errs[1] = &domain.TransportError{Op: "fetch page", Err: errors.New("connection refused")}
	c := New(src, domain.CategoryPopular)
	ctx := context.Background()

	require.Error(t, c.Start(ctx))
	require.NoError(t, c.RequestMore(ctx))

	assert.Equal(t, 1, src.lastCall().Params.Page)
	assert.Equal(t, []string{"p1 1"}, titles(c.Snapshot().Items))
}

func TestObserverSeesLoadingTransitions(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 2, movies("p", 1))

	var loading []bool
	c := New(src, domain.CategoryPopular, WithObserver(ObserverFunc(func(s State) {
		loading = append(loading, s.Loading)
	})))

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, []bool{true, false}, loading)
}

func TestNewDefaultsInvalidCategory(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	c := New(newFakeSource(), domain.Category("upcoming"), WithLogger(logger))
	assert.Equal(t, domain.CategoryPopular, c.Filter().Category)
	assert.Contains(t, buf.String(), "unknown category")
	assert.Contains(t, buf.String(), "category=upcoming")

	buf.Reset()
	New(newFakeSource(), domain.CategoryTopRated, WithLogger(logger))
	assert.Empty(t, buf.String())
}

func TestPublishedRevisionsIncrease(t *testing.T) {
	src := newFakeSource()
	src.add(domain.EndpointPopular, 2, movies("p", 1))
	src.add(domain.EndpointTopRated, 1, movies("t", 1))

	var revs []uint64
	c := New(src, domain.CategoryPopular, WithObserver(ObserverFunc(func(s State) {
		revs = append(revs, s.Rev)
	})))
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	c.SetQuery("p")
	_, err := c.SetCategory(domain.CategoryTopRated)
	require.NoError(t, err)

	require.NotEmpty(t, revs)
	for i := 1; i < len(revs); i++ {
		assert.Greater(t, revs[i], revs[i-1])
	}
	assert.Equal(t, revs[len(revs)-1], c.Snapshot().Rev)
}
