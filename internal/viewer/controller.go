// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// SearchObserver is told how long each search took and whether it was superseded.
type SearchObserver interface {
	ObserveSearch(elapsed time.Duration, superseded bool)
}

// ErrNotReady is returned by operations that need a loaded document.
var ErrNotReady = errors.New("viewer: document is not ready")

// Controller owns the state of one open document. All methods are safe for
// concurrent use; mutations are serialised by an internal mutex.
type Controller struct {
	engine   Engine
	source   string
	logger   *slog.Logger
	observer SearchObserver

	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}

	mu           sync.Mutex
	state        State
	document     Document
	searchToken  uint64
	cancelSearch context.CancelFunc
	closed       bool
}

// ControllerOption customises a [Controller].
type ControllerOption func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithSearchObserver records search timings.
func WithSearchObserver(observer SearchObserver) ControllerOption {
	return func(c *Controller) { c.observer = observer }
}

// NewController creates a controller in the loading phase. Background work
// (load and search) stops when ctx is cancelled or [Controller.Close] is called.
func NewController(ctx context.Context, engine Engine, source string, opts ...ControllerOption) *Controller {
	ctx, cancel := context.WithCancel(ctx)

	controller := &Controller{
		engine: engine,
		source: source,
		logger: slog.Default(),
		ctx:    ctx,
		cancel: cancel,
		ready:  make(chan struct{}),
		state:  NewState(),
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Source returns the document source the controller was opened with.
func (c *Controller) Source() string { return c.source }

// Ready is closed once loading has finished, successfully or not.
func (c *Controller) Ready() <-chan struct{} { return c.ready }

// Load opens the document through the engine. Failures move the view to the
// error phase; there is no retry. Load must be called once.
func (c *Controller) Load() {
	defer close(c.ready)

	document, err := c.engine.Open(c.ctx, c.source)
	if err == nil && document == nil {
		err = ErrNoDocument
	}
	if err == nil && document.PageCount() < 1 {
		_ = document.Close()
		document, err = nil, ErrEmptyDocument
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		if document != nil {
			_ = document.Close()
		}
		return
	}

	if err != nil {
		c.state = failed(c.state, loadFailureReason(err))
		c.logger.Warn("viewer_load_failed",
			slog.String("source", c.source),
			slog.String("error", err.Error()),
		)
		return
	}

	c.document = document
	c.state = loaded(c.state, document.PageCount())
	c.logger.Debug("viewer_loaded",
		slog.String("source", c.source),
		slog.Int("pages", c.state.TotalPages),
	)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Dispatch applies a synchronous command and returns the resulting state.
func (c *Controller) Dispatch(cmd Command) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, cmd)
	return c.state.clone()
}

// GoToPage is shorthand for Dispatch(GoToPage{n}).
func (c *Controller) GoToPage(n int) State { return c.Dispatch(GoToPage{Page: n}) }

// NextPage is shorthand for Dispatch(NextPage{}).
func (c *Controller) NextPage() State { return c.Dispatch(NextPage{}) }

// PreviousPage is shorthand for Dispatch(PreviousPage{}).
func (c *Controller) PreviousPage() State { return c.Dispatch(PreviousPage{}) }

// SetZoom is shorthand for Dispatch(SetZoom{scale}).
func (c *Controller) SetZoom(scale float64) State { return c.Dispatch(SetZoom{Scale: scale}) }

// SetFitMode is shorthand for Dispatch(SetFitMode{mode}).
func (c *Controller) SetFitMode(mode FitMode) State { return c.Dispatch(SetFitMode{Mode: mode}) }

// Rotate is shorthand for Dispatch(Rotate{direction}).
func (c *Controller) Rotate(direction RotateDirection) State {
	return c.Dispatch(Rotate{Direction: direction})
}

// SetDisplayMode is shorthand for Dispatch(SetDisplayMode{mode}).
func (c *Controller) SetDisplayMode(mode DisplayMode) State {
	return c.Dispatch(SetDisplayMode{Mode: mode})
}

// NextMatch is shorthand for Dispatch(NextMatch{}).
func (c *Controller) NextMatch() State { return c.Dispatch(NextMatch{}) }

// PreviousMatch is shorthand for Dispatch(PreviousMatch{}).
func (c *Controller) PreviousMatch() State { return c.Dispatch(PreviousMatch{}) }

// EffectiveScale resolves the current zoom against viewport using the size
// of the current page.
func (c *Controller) EffectiveScale(ctx context.Context, viewport Size) (float64, error) {
	c.mu.Lock()
	state, document := c.state, c.document
	c.mu.Unlock()

	if state.Phase != PhaseReady || document == nil {
		return 0, ErrNotReady
	}

	page, err := document.PageSize(state.CurrentPage)
	if err != nil {
		return 0, err
	}

	return state.EffectiveScale(page, viewport), nil
}

// Search starts an asynchronous search for query and returns a channel that
// is closed when this search settles (completed, superseded or cancelled).
//
// A new call supersedes any search in flight: the previous search's context
// is cancelled and its results are discarded by token comparison, so a late
// completion can never overwrite newer state. An empty query clears results.
func (c *Controller) Search(query string) <-chan struct{} {
	done := make(chan struct{})
	query = strings.TrimSpace(query)

	c.mu.Lock()
	if c.state.Phase != PhaseReady || c.closed {
		c.mu.Unlock()
		close(done)
		return done
	}

	c.searchToken++
	token := c.searchToken
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}

	if query == "" {
		c.state = searchCleared(c.state)
		c.mu.Unlock()
		close(done)
		return done
	}

	searchCtx, cancel := context.WithCancel(c.ctx)
	c.cancelSearch = cancel
	c.state = searchStarted(c.state, query)
	document := c.document
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		startTime := time.Now()
		results, finished := searchDocument(searchCtx, document, query, c.logger)

		c.mu.Lock()
		defer c.mu.Unlock()

		superseded := token != c.searchToken || c.closed
		if c.observer != nil {
			c.observer.ObserveSearch(time.Since(startTime), superseded || !finished)
		}
		if superseded || !finished {
			return
		}

		c.cancelSearch = nil
		c.state = searchCompleted(c.state, query, results)
		c.logger.Debug("viewer_search_completed",
			slog.String("source", c.source),
			slog.Int("matches", len(results)),
		)
	}()

	return done
}

// Close cancels background work and releases the document.
func (c *Controller) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.searchToken++

	if c.document == nil {
		return nil
	}
	document := c.document
	c.document = nil
	return document.Close()
}
