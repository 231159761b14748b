// Package catalog holds the stateful pieces of the catalog browser: the paginated,
// genre-filtered movie list controller and the genre selector that drives it.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/metinatakli/movie-catalog/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/sync/errgroup"
)

var meter = otel.Meter("github.com/metinatakli/movie-catalog/internal/catalog")

// MovieSource is the pair of remote reads a reload is made of.
type MovieSource interface {
	GetPage(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, error)
	Count(ctx context.Context, genre string) (int, error)
}

// View is an immutable snapshot of a controller.
type View struct {
	State      domain.PaginationState
	TotalPages int
	// Shown is the filter triple the Movies were fetched with.
	Shown        domain.MovieFilters
	Movies       []domain.MovieSummary
	Loading      bool
	HasMovies    bool
	PrevDisabled bool
	NextDisabled bool
}

// Controller owns the pagination state of one mounted movie list. Every transition
// issues a reload made of a page read and a count read. Reloads are stamped with a
// generation and only the result of the most recently issued one is ever applied.
type Controller struct {
	source    MovieSource
	navigator domain.Navigator
	logger    *slog.Logger
	metrics   controllerMetrics

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	mounted    bool
	state      domain.PaginationState
	shown      domain.MovieFilters
	movies     []domain.MovieSummary
	generation uint64
	loading    bool
	settled    chan struct{}

	subscribers map[int]chan View
	nextSubID   int
}

func NewController(source MovieSource, navigator domain.Navigator, logger *slog.Logger) *Controller {
	settled := make(chan struct{})
	close(settled)

	return &Controller{
		source:      source,
		navigator:   navigator,
		logger:      logger,
		metrics:     newControllerMetrics(),
		state:       domain.NewPaginationState(),
		movies:      []domain.MovieSummary{},
		settled:     settled,
		subscribers: make(map[int]chan View),
	}
}

// Mount starts the controller lifetime and issues the initial reload. Reads issued by
// the controller run with ctx.
func (c *Controller) Mount(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mounted {
		return
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mounted = true
	c.reloadLocked()
}

// Unmount discards the controller. Results of reads still in flight are dropped.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return
	}

	c.mounted = false
	c.cancel()

	if c.loading {
		c.loading = false
		close(c.settled)
	}

	for id, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, id)
	}
}

func (c *Controller) SetPageSize(pageSize int) error {
	if pageSize < 0 {
		return domain.ErrInvalidPageSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.PageSize = pageSize
	c.state.CurrentPage = domain.DefaultPage
	c.reloadLocked()

	return nil
}

func (c *Controller) SetGenre(genre string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SelectedGenre = genre
	c.state.CurrentPage = domain.DefaultPage
	c.reloadLocked()
}

// HandleGenreChange is the listener a GenreSelector notifies.
func (c *Controller) HandleGenreChange(change domain.GenreChange) {
	c.SetGenre(change.Value)
}

// NextPage reports whether the page changed. It is a no-op on the last page.
func (c *Controller) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.CurrentPage >= c.state.TotalPages() {
		return false
	}

	c.state.CurrentPage++
	c.reloadLocked()

	return true
}

// PrevPage reports whether the page changed. It is a no-op on the first page.
func (c *Controller) PrevPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.CurrentPage <= 1 {
		return false
	}

	c.state.CurrentPage--
	c.reloadLocked()

	return true
}

// Open requests navigation to the detail page of a movie. It never touches the
// pagination state and navigation failures are only logged.
func (c *Controller) Open(ctx context.Context, movieID string) {
	if movieID == "" {
		c.logger.Error("cannot open movie details: movie id is empty")
		return
	}

	err := c.navigator.Navigate(ctx, domain.NewRecordPageRef(movieID))
	if err != nil {
		c.logger.Error("failed to request movie details navigation", "movie_id", movieID, "error", err)
	}
}

// Wait blocks until the most recently issued reload has been applied.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	settled := c.settled
	c.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.viewLocked()
}

// Subscribe returns a channel that receives a View after every applied change. Slow
// readers only ever see the latest View. The returned func unsubscribes.
func (c *Controller) Subscribe() (<-chan View, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++

	ch := make(chan View, 1)
	c.subscribers[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if ch, ok := c.subscribers[id]; ok {
			close(ch)
			delete(c.subscribers, id)
		}
	}
}

func (c *Controller) viewLocked() View {
	movies := make([]domain.MovieSummary, len(c.movies))
	copy(movies, c.movies)

	totalPages := c.state.TotalPages()

	return View{
		State:        c.state,
		TotalPages:   totalPages,
		Shown:        c.shown,
		Movies:       movies,
		Loading:      c.loading,
		HasMovies:    len(movies) > 0,
		PrevDisabled: c.state.CurrentPage <= 1,
		NextDisabled: c.state.CurrentPage >= totalPages,
	}
}

func (c *Controller) publishLocked() {
	if len(c.subscribers) == 0 {
		return
	}

	view := c.viewLocked()

	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- view
	}
}

func (c *Controller) reloadLocked() {
	if !c.mounted {
		return
	}

	c.generation++
	gen := c.generation
	filters := c.state.Filters()

	if !c.loading {
		c.loading = true
		c.settled = make(chan struct{})
	}

	c.metrics.reloads.Add(c.ctx, 1)

	go c.load(c.ctx, gen, filters)
}

func (c *Controller) load(ctx context.Context, gen uint64, filters domain.MovieFilters) {
	var (
		movies []*domain.Movie
		count  int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		movies, err = c.source.GetPage(gctx, filters)
		if err != nil {
			return fmt.Errorf("fetch movie page: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		count, err = c.source.Count(gctx, filters.Genre)
		if err != nil {
			return fmt.Errorf("fetch movie count: %w", err)
		}

		return nil
	})

	err := g.Wait()

	c.apply(gen, filters, movies, count, err)
}

func (c *Controller) apply(gen uint64, filters domain.MovieFilters, movies []*domain.Movie, count int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return
	}

	if gen != c.generation {
		c.metrics.staleResponses.Add(c.ctx, 1)
		c.logger.Debug("dropping stale catalog response",
			"generation", gen,
			"latest_generation", c.generation,
			"genre", filters.Genre,
			"page", filters.Page,
			"page_size", filters.PageSize)
		return
	}

	c.shown = filters

	if err != nil {
		c.metrics.reloadFailures.Add(c.ctx, 1)
		c.logger.Error("failed to load movies",
			"error", err,
			"genre", filters.Genre,
			"page", filters.Page,
			"page_size", filters.PageSize)

		c.movies = []domain.MovieSummary{}
		c.state.TotalCount = 0
		c.state.CurrentPage = min(c.state.CurrentPage, c.state.TotalPages())
		c.settleLocked()
		return
	}

	c.movies = domain.NewMovieSummaries(movies)
	c.state.TotalCount = count

	// The record set may have shrunk since the page was chosen.
	if totalPages := c.state.TotalPages(); c.state.CurrentPage > totalPages {
		c.state.CurrentPage = totalPages
		c.publishLocked()
		c.reloadLocked()
		return
	}

	c.settleLocked()
}

func (c *Controller) settleLocked() {
	c.loading = false
	close(c.settled)
	c.publishLocked()
}

type controllerMetrics struct {
	reloads        metric.Int64Counter
	reloadFailures metric.Int64Counter
	staleResponses metric.Int64Counter
}

func newControllerMetrics() controllerMetrics {
	return controllerMetrics{
		reloads:        newCounter("catalog.reloads", "Number of catalog reloads issued"),
		reloadFailures: newCounter("catalog.reload_failures", "Number of catalog reloads that failed"),
		staleResponses: newCounter("catalog.stale_responses", "Number of superseded catalog responses dropped"),
	}
}

func newCounter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}

	return counter
}
