package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/cinedex/internal/domain"
)

// ErrStale is returned by Run when a response arrived after the filters
// changed and was therefore discarded.
var ErrStale = errors.New("catalog: response discarded after filter change")

// Request is a single page fetch issued under one epoch.
// It is created by the controller and must be passed back through Fetch and Complete.
type Request struct {
	ID     string
	Epoch  Epoch
	Target Target

	ctx    context.Context
	cancel context.CancelFunc
}

// Page returns the page number this request fetches
func (r *Request) Page() int {
	return r.Target.Params.Page
}

// Result is the outcome of fetching a Request
type Result struct {
	Request  *Request
	Page     domain.Page
	Err      error
	Duration time.Duration
}

// Controller accumulates catalog pages for the active filters.
//
// Commands (SetCategory, SetGenre, NextPage, More) never block: when a fetch
// is due they return a *Request which the caller executes with Fetch (off the
// UI goroutine) and hands back to Complete. Run and the Load helpers do all of
// this inline for callers that can block.
type Controller struct {
	source   domain.CatalogSource
	logger   *slog.Logger
	matcher  Matcher
	observer Observer

	mu        sync.Mutex
	filter    Filter
	seq       uint64
	page      int // page targeted by the current or most recent fetch
	loaded    int // pages merged into items
	items     []domain.Movie
	exhausted bool
	loading   bool
	err       error
	inflight  *Request
	rev       uint64 // bumped for every published snapshot
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMatcher sets the matcher used for the derived view
func WithMatcher(m Matcher) Option {
	return func(c *Controller) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithObserver registers an observer notified after every state change
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithGenre starts the controller with a genre already selected
func WithGenre(g domain.GenreFilter) Option {
	return func(c *Controller) {
		c.filter.Genre = g
	}
}

// New creates a controller browsing the given category. No fetch is issued
// until Start, NextPage or a filter change.
//
// Unlike SetCategory, New does not fail on a category outside the closed
// set: it starts on CategoryPopular and logs a warning. Callers that take
// the category from user input should validate it with domain.ParseCategory.
func New(source domain.CatalogSource, category domain.Category, opts ...Option) *Controller {
	requested := category
	if !category.Valid() {
		category = domain.CategoryPopular
	}
	c := &Controller{
		source:   source,
		logger:   slog.Default(),
		matcher:  SubstringMatcher{},
		observer: NoOpObserver{},
		filter:   Filter{Category: category},
		seq:      1,
		page:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if requested != category {
		c.logger.Warn("unknown category, using popular", "category", string(requested))
	}
	return c
}

// === Commands ===

// SetQuery changes the text query. Accumulated items are untouched.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	if c.filter.Query == query {
		c.mu.Unlock()
		return
	}
	c.filter.Query = query
	state := c.publishLocked()
	c.mu.Unlock()

	c.observer.OnChange(state)
}

// SetCategory switches category, starting a new epoch. It returns the
// request for page 1 of the new epoch, or nil when the category is unchanged.
func (c *Controller) SetCategory(category domain.Category) (*Request, error) {
	if !category.Valid() {
		return nil, errors.New("catalog: invalid category " + string(category))
	}
	return c.changeEpoch(func(f *Filter) { f.Category = category }), nil
}

// SetGenre selects or clears the genre, starting a new epoch. It returns the
// request for page 1 of the new epoch, or nil when the genre is unchanged.
func (c *Controller) SetGenre(genre domain.GenreFilter) *Request {
	if !genre.Set {
		genre = domain.NoGenre
	}
	return c.changeEpoch(func(f *Filter) { f.Genre = genre })
}

func (c *Controller) changeEpoch(apply func(*Filter)) *Request {
	c.mu.Lock()
	next := c.filter
	apply(&next)
	if c.filter.sameEpoch(next) {
		c.mu.Unlock()
		return nil
	}
	c.filter = next
	c.resetLocked()
	req := c.beginLocked()
	state := c.publishLocked()
	c.mu.Unlock()

	c.logger.Info("filter epoch changed",
		"category", next.Category, "genre", next.Genre.String(), "epoch", req.Epoch.Seq)
	c.observer.OnChange(state)
	return req
}

// Reset clears the accumulation for the current filters: no items, page 1,
// not exhausted. A request still in flight is cancelled and its response
// will be discarded when it arrives.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	state := c.publishLocked()
	c.mu.Unlock()

	c.observer.OnChange(state)
}

func (c *Controller) resetLocked() {
	if c.inflight != nil {
		c.inflight.cancel()
		c.inflight = nil
	}
	c.seq++
	c.items = nil
	c.page = 1
	c.loaded = 0
	c.exhausted = false
	c.loading = false
	c.err = nil
}

// NextPage issues the fetch for the next unloaded page of the current epoch.
// It returns nil without any effect while a fetch is in flight or once the
// epoch is exhausted. After a failed fetch the same page is requested again.
func (c *Controller) NextPage() *Request {
	c.mu.Lock()
	req := c.beginLocked()
	if req == nil {
		c.mu.Unlock()
		return nil
	}
	state := c.publishLocked()
	c.mu.Unlock()

	c.observer.OnChange(state)
	return req
}

// More is the user-facing "load more" command. It advances to the page after
// the last one merged and is a no-op while loading or once exhausted.
func (c *Controller) More() *Request {
	return c.NextPage()
}

func (c *Controller) beginLocked() *Request {
	if c.loading || c.exhausted {
		return nil
	}
	c.loading = true
	c.page = c.loaded + 1

	ctx, cancel := context.WithCancel(context.Background())
	req := &Request{
		ID:     uuid.NewString(),
		Epoch:  c.epochLocked(),
		Target: Resolve(c.filter.Category, c.filter.Genre, c.page),
		ctx:    ctx,
		cancel: cancel,
	}
	c.inflight = req
	return req
}

// === Execution ===

// Fetch performs the network call for req. It does not touch controller
// state and is safe to call from any goroutine. The fetch is cancelled if
// the request is abandoned by an epoch change.
func (c *Controller) Fetch(ctx context.Context, req *Request) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(req.ctx, cancel)
	defer stop()

	c.logger.Debug("fetching page",
		"request", req.ID, "kind", req.Target.Kind, "page", req.Page(), "genre", req.Target.Params.Genre.String())

	start := time.Now()
	page, err := c.source.FetchPage(ctx, req.Target.Kind, req.Target.Params)
	return Result{Request: req, Page: page, Err: err, Duration: time.Since(start)}
}

// Complete merges a fetch result into the accumulation. It returns false
// when the result belongs to an earlier epoch and was discarded.
func (c *Controller) Complete(res Result) bool {
	req := res.Request
	if req == nil {
		return false
	}

	c.mu.Lock()
	if c.inflight != req || req.Epoch != c.epochLocked() {
		c.mu.Unlock()
		c.logger.Debug("discarding stale page", "request", req.ID, "epoch", req.Epoch.Seq, "page", req.Page())
		return false
	}
	c.inflight = nil
	c.loading = false
	req.cancel()

	if res.Err != nil {
		c.err = res.Err
		state := c.publishLocked()
		c.mu.Unlock()

		c.logger.Warn("failed to fetch page",
			"request", req.ID, "kind", req.Target.Kind, "page", req.Page(), "error", res.Err)
		c.observer.OnChange(state)
		return true
	}

	items := res.Page.Items
	if req.Epoch.Category == domain.CategoryReleaseDate {
		items = sortByReleaseDate(items)
	}
	c.items = append(c.items, items...)
	c.loaded = req.Page()
	c.err = nil

	reported := res.Page.Page
	if reported <= 0 {
		reported = req.Page()
	}
	if len(items) == 0 || reported >= res.Page.TotalPages {
		c.exhausted = true
	}
	state := c.publishLocked()
	c.mu.Unlock()

	c.logger.Debug("merged page",
		"request", req.ID, "page", req.Page(), "count", len(items), "total", len(state.Items),
		"totalPages", res.Page.TotalPages, "exhausted", state.Exhausted, "took", res.Duration)
	c.observer.OnChange(state)
	return true
}

// Run fetches req and merges the result. A nil request is a no-op.
// It returns the fetch error, or ErrStale if the result was discarded.
func (c *Controller) Run(ctx context.Context, req *Request) error {
	if req == nil {
		return nil
	}
	res := c.Fetch(ctx, req)
	if !c.Complete(res) {
		return ErrStale
	}
	return res.Err
}

// Start loads the first page for the initial filters
func (c *Controller) Start(ctx context.Context) error {
	return c.LoadNextPage(ctx)
}

// LoadNextPage issues and runs the next page fetch, blocking until merged
func (c *Controller) LoadNextPage(ctx context.Context) error {
	return c.Run(ctx, c.NextPage())
}

// RequestMore is the blocking form of More
func (c *Controller) RequestMore(ctx context.Context) error {
	return c.Run(ctx, c.More())
}

// === Queries ===

// Filter returns the current filters
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Epoch returns the current epoch
func (c *Controller) Epoch() Epoch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epochLocked()
}

// Snapshot returns a copy of the observable state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) epochLocked() Epoch {
	return Epoch{Seq: c.seq, Category: c.filter.Category, Genre: c.filter.Genre}
}

// publishLocked takes the snapshot handed to the observer
func (c *Controller) publishLocked() State {
	c.rev++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	items := make([]domain.Movie, len(c.items))
	copy(items, c.items)
	return State{
		Rev:         c.rev,
		Filter:      c.filter,
		Epoch:       c.epochLocked(),
		Items:       items,
		Visible:     Visible(items, c.filter.Query, c.matcher),
		Page:        c.page,
		PagesLoaded: c.loaded,
		Loading:     c.loading,
		Exhausted:   c.exhausted,
		Err:         c.err,
	}
}

// sortByReleaseDate returns a copy of items ordered newest first.
// Undated items keep their relative order at the end.
func sortByReleaseDate(items []domain.Movie) []domain.Movie {
	sorted := make([]domain.Movie, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ReleaseDate, sorted[j].ReleaseDate
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	return sorted
}
