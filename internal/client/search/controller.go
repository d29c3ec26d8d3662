// Package search implements incremental ("as you type") file search: input
// is debounced, at most one request outcome is ever applied, and stale
// responses are discarded.
package search

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/storebox/internal/client/models"
	"github.com/dmitrijs2005/storebox/internal/logging"
)

// State of the search panel.
type State int

const (
	// StateIdle: no query text, nothing shown.
	StateIdle State = iota
	// StatePending: text entered, debounce timer armed.
	StatePending
	// StateFetching: request in flight.
	StateFetching
	// StateOpen: results (possibly none) are displayed.
	StateOpen
	// StateClosed: panel dismissed, text may remain.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateFetching:
		return "fetching"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// QueryParam is the location parameter carrying the search text.
const QueryParam = "query"

// Fetcher runs one search against the backend.
type Fetcher func(ctx context.Context, query string) ([]models.File, error)

// Navigator applies a location change. query may be nil, meaning the
// location carries no parameters.
type Navigator func(path string, query url.Values)

// Controller drives incremental search. Every keystroke goes through
// SetText; the fetch fires only after the input has been quiet for the
// debounce interval, and a response is applied only if no newer input
// arrived while it was in flight.
type Controller struct {
	mu       sync.Mutex
	fetch    Fetcher
	navigate Navigator
	logger   logging.Logger
	debounce time.Duration

	timer      *time.Timer
	generation uint64

	path    string
	text    string
	state   State
	results []models.File
	lastErr error
}

// NewController constructs a controller. navigate may be nil when the
// caller does not track a location.
func NewController(fetch Fetcher, navigate Navigator, debounce time.Duration, logger logging.Logger) *Controller {
	if navigate == nil {
		navigate = func(string, url.Values) {}
	}
	return &Controller{
		fetch:    fetch,
		navigate: navigate,
		logger:   logger,
		debounce: debounce,
		state:    StateIdle,
	}
}

// SetText records a keystroke. Any armed timer is reset, so rapid typing
// collapses into a single fetch. Emptying the input cancels everything,
// closes the panel and strips the query parameter from the location.
func (c *Controller) SetText(text string) {
	c.mu.Lock()

	c.text = text
	c.generation++ // anything in flight is now stale
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if strings.TrimSpace(text) == "" {
		c.results = nil
		c.state = StateClosed
		path := c.path
		c.mu.Unlock()

		c.navigate(path, nil)
		return
	}

	c.state = StatePending
	gen := c.generation
	c.timer = time.AfterFunc(c.debounce, func() { c.runFetch(gen, text) })
	c.mu.Unlock()
}

// Flush fires a pending fetch immediately instead of waiting out the
// debounce interval (e.g. the user pressed Enter).
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.timer == nil || c.state != StatePending {
		c.mu.Unlock()
		return
	}
	c.timer.Stop()
	c.timer = nil
	gen := c.generation
	text := c.text
	c.mu.Unlock()

	c.runFetch(gen, text)
}

func (c *Controller) runFetch(gen uint64, text string) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.state = StateFetching
	fetch := c.fetch
	c.mu.Unlock()

	results, err := fetch(context.Background(), text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// a newer keystroke owns the panel now
		return
	}
	if err != nil {
		c.logger.Warn(context.Background(), "search failed", "query", text, "error", err)
		c.results = nil
		c.lastErr = err
		c.state = StateOpen
		return
	}
	c.results = results
	c.lastErr = nil
	c.state = StateOpen
}

// Select dismisses the panel and navigates to the page for the chosen
// file's category, carrying the query along. Video and audio share the
// media page; every other category has a page named after it.
func (c *Controller) Select(f models.File) {
	c.mu.Lock()
	text := c.text
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.results = nil
	c.state = StateClosed
	c.mu.Unlock()

	q := url.Values{}
	if text != "" {
		q.Set(QueryParam, text)
	}
	c.navigate(RouteFor(f.Type), q)
}

// RouteFor maps a file category to its page path.
func RouteFor(fileType string) string {
	switch fileType {
	case "video", "audio":
		return "/media"
	}
	return "/" + fileType + "s"
}

// SyncLocation tells the controller about an external location change.
// When the location carries no query parameter the input is reset without
// triggering a fetch.
func (c *Controller) SyncLocation(path string, query url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.path = path
	if query.Get(QueryParam) != "" {
		return
	}

	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.text = ""
	c.results = nil
	c.state = StateIdle
}

// Text returns the current input.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// State returns the current panel state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results returns the currently displayed results.
func (c *Controller) Results() []models.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// Err returns the error of the last applied fetch, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
