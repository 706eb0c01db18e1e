package listing

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/logging"
)

// FetchFailedMessage is shown when a list fetch fails without a server message.
const FetchFailedMessage = "Failed to load prototypes."

// Fetcher loads one page of prototypes.
type Fetcher interface {
	ListPrototypes(ctx context.Context, params url.Values) (models.Page, error)
}

// State is a snapshot of the list as last applied.
type State struct {
	Query      Query
	Viewer     Viewer
	Records    []models.Prototype
	Count      int
	TotalPages int
	Loading    bool
	Err        string
}

// Controller owns the list query and the records of the latest fetch.
// It is safe for concurrent use.
type Controller struct {
	fetcher Fetcher
	logger  logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	query   Query
	viewer  Viewer
	records []models.Prototype
	count   int
	loading bool
	err     string
	seq     uint64
	done    chan struct{}
	closed  bool

	inflight sync.WaitGroup
}

// NewController creates an idle controller. Nothing is fetched until the
// first Set* or Refetch call.
func NewController(ctx context.Context, f Fetcher, logger logging.Logger, viewer Viewer, pageSize int) *Controller {
	ctx, cancel := context.WithCancel(ctx)

	done := make(chan struct{})
	close(done)

	return &Controller{
		fetcher: f,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		viewer:  viewer,
		query:   Query{Page: 1, PageSize: pageSize},
		records: []models.Prototype{},
		done:    done,
	}
}

func (c *Controller) SetSearch(s string) {
	c.update(func(q *Query, _ *Viewer) { q.Search = s; q.Page = 1 })
}

func (c *Controller) SetDepartment(d string) {
	c.update(func(q *Query, _ *Viewer) { q.Department = d; q.Page = 1 })
}

func (c *Controller) SetStorage(s string) {
	c.update(func(q *Query, _ *Viewer) { q.Storage = s; q.Page = 1 })
}

// SetFilters replaces search, department and storage with a single fetch.
func (c *Controller) SetFilters(search, department, storage string) {
	c.update(func(q *Query, _ *Viewer) {
		q.Search, q.Department, q.Storage = search, department, storage
		q.Page = 1
	})
}

func (c *Controller) SetViewer(v Viewer) {
	c.update(func(q *Query, cur *Viewer) { *cur = v; q.Page = 1 })
}

// Refetch reissues the current query, e.g. after a workflow action succeeded.
func (c *Controller) Refetch() {
	c.update(func(*Query, *Viewer) {})
}

// SetPage moves to page p. Pages outside [1, TotalPages] are ignored and
// SetPage reports false.
func (c *Controller) SetPage(p int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || p < 1 || p > TotalPages(c.count, c.query.PageSize) {
		return false
	}
	c.query.Page = p
	c.fetchLocked()
	return true
}

func (c *Controller) Next() bool {
	c.mu.Lock()
	p := c.query.Page + 1
	c.mu.Unlock()
	return c.SetPage(p)
}

func (c *Controller) Prev() bool {
	c.mu.Lock()
	p := c.query.Page - 1
	c.mu.Unlock()
	return c.SetPage(p)
}

func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TotalPages(c.count, c.query.PageSize)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]models.Prototype, len(c.records))
	copy(records, c.records)

	return State{
		Query:      c.query,
		Viewer:     c.viewer,
		Records:    records,
		Count:      c.count,
		TotalPages: TotalPages(c.count, c.query.PageSize),
		Loading:    c.loading,
		Err:        c.err,
	}
}

// Wait blocks until the most recently issued fetch has settled.
func (c *Controller) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		seq, done := c.seq, c.done
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}

		c.mu.Lock()
		latest := c.seq == seq
		c.mu.Unlock()
		if latest {
			return nil
		}
	}
}

// Close unmounts the controller. In-flight fetches are cancelled and any
// response arriving afterwards is dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) update(fn func(q *Query, v *Viewer)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	fn(&c.query, &c.viewer)
	c.fetchLocked()
}

func (c *Controller) fetchLocked() {
	c.seq++
	seq := c.seq
	done := make(chan struct{})
	c.done = done
	c.loading = true

	params := BuildParams(c.viewer, c.query)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(done)

		page, err := c.fetcher.ListPrototypes(c.ctx, params)
		c.apply(seq, page, err)
	}()
}

func (c *Controller) apply(seq uint64, page models.Page, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || seq != c.seq {
		c.logger.Debug(c.ctx, "discarding stale list response", "seq", seq, "latest", c.seq)
		return
	}
	c.loading = false

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn(c.ctx, "list fetch failed", "error", err.Error())
		}
		c.records = []models.Prototype{}
		c.count = 0
		c.err = client.UserMessage(err, FetchFailedMessage)
		return
	}

	c.records = page.Results
	if c.records == nil {
		c.records = []models.Prototype{}
	}
	c.count = page.Count
	c.err = ""
}
