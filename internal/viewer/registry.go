// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/pkg/uuid"
)

// RegistryObserver tracks the number of open sessions.
type RegistryObserver interface {
	ViewerOpened()
	ViewerClosed()
	SearchObserver
}

// Session is one open view, optionally owned by a signed-in user.
type Session struct {
	ID         string
	OwnerID    string
	Document   string
	OpenedAt   time.Time
	Controller *Controller

	lastSeen time.Time
}

// RegistryOptions configures a [Registry].
type RegistryOptions struct {
	// IdleTTL closes sessions not touched for this long. Zero disables expiry.
	IdleTTL  time.Duration
	Logger   *slog.Logger
	Observer RegistryObserver

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Registry keeps every open view keyed by session ID.
type Registry struct {
	engine   Engine
	idleTTL  time.Duration
	logger   *slog.Logger
	observer RegistryObserver
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. Documents are opened through engine.
func NewRegistry(engine Engine, opts RegistryOptions) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Registry{
		engine:   engine,
		idleTTL:  opts.IdleTTL,
		logger:   opts.Logger,
		observer: opts.Observer,
		now:      opts.Clock,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for document and starts loading it in the background.
func (r *Registry) Open(ownerID, document string) *Session {
	options := []ControllerOption{WithLogger(r.logger)}
	if r.observer != nil {
		options = append(options, WithSearchObserver(r.observer))
	}

	now := r.now()
	session := &Session{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Document:   document,
		OpenedAt:   now,
		Controller: NewController(r.ctx, r.engine, document, options...),
		lastSeen:   now,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.ViewerOpened()
	}

	go session.Controller.Load()

	r.logger.Info("viewer_session_opened",
		slog.String("session_id", session.ID),
		slog.String("document", document),
	)

	return session
}

// Get returns the session and marks it as recently used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Viewer session")
	}
	session.lastSeen = r.now()
	return session, nil
}

// Close ends one session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return apperr.NotFound("Viewer session")
	}

	r.release(session, "closed")
	return nil
}

// CloseOwnedBy ends every session owned by ownerID and reports how many were closed.
func (r *Registry) CloseOwnedBy(ownerID string) int {
	if ownerID == "" {
		return 0
	}
	return r.closeWhere("signed_out", func(session *Session) bool {
		return session.OwnerID == ownerID
	})
}

// Sweep closes sessions idle for longer than the configured TTL.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)
	return r.closeWhere("idle", func(session *Session) bool {
		return session.lastSeen.Before(cutoff)
	})
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps idle sessions until ctx is cancelled, then closes everything.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idleTTL / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Shutdown()
			return
		case <-ticker.C:
			if closed := r.Sweep(); closed > 0 {
				r.logger.Info("viewer_sessions_expired", slog.Int("count", closed))
			}
		}
	}
}

// Shutdown closes every session and cancels in-flight loads and searches.
func (r *Registry) Shutdown() {
	r.closeWhere("shutdown", func(*Session) bool { return true })
	r.cancel()
}

func (r *Registry) closeWhere(reason string, match func(*Session) bool) int {
	r.mu.Lock()
	var matched []*Session
	for id, session := range r.sessions {
		if match(session) {
			matched = append(matched, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range matched {
		r.release(session, reason)
	}
	return len(matched)
}

func (r *Registry) release(session *Session, reason string) {
	if err := session.Controller.Close(); err != nil {
		r.logger.Warn("viewer_document_close_failed",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
	if r.observer != nil {
		r.observer.ViewerClosed()
	}
	r.logger.Debug("viewer_session_closed",
		slog.String("session_id", session.ID),
		slog.String("reason", reason),
	)
}
