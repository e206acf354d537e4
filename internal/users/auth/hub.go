// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"sync"
	"time"
)

// EventType names a change in authentication state.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event describes one sign-in or sign-out.
type Event struct {
	Type   EventType
	UserID string
	Email  string
	At     time.Time
}

// SessionHub fans authentication events out to subscribers.
//
// Subscribers run synchronously on the publishing goroutine, in subscription
// order, and must not block.
type SessionHub struct {
	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint64]func(Event)
	order       []uint64
}

func NewSessionHub() *SessionHub {
	return &SessionHub{subscribers: make(map[uint64]func(Event))}
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (hub *SessionHub) Subscribe(fn func(Event)) (unsubscribe func()) {
	hub.mu.Lock()
	id := hub.nextID
	hub.nextID++
	hub.subscribers[id] = fn
	hub.order = append(hub.order, id)
	hub.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			hub.mu.Lock()
			defer hub.mu.Unlock()

			delete(hub.subscribers, id)
			for i, candidate := range hub.order {
				if candidate == id {
					hub.order = append(hub.order[:i], hub.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers event to every current subscriber.
func (hub *SessionHub) Publish(event Event) {
	hub.mu.Lock()
	targets := make([]func(Event), 0, len(hub.order))
	for _, id := range hub.order {
		targets = append(targets, hub.subscribers[id])
	}
	hub.mu.Unlock()

	for _, fn := range targets {
		fn(event)
	}
}

// Len reports the number of subscribers.
func (hub *SessionHub) Len() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.order)
}

// AuditLogger returns a subscriber that records every event.
func AuditLogger(logger *slog.Logger) func(Event) {
	return func(event Event) {
		logger.Info("auth_"+string(event.Type),
			slog.String("user_id", event.UserID),
			slog.Time("at", event.At),
		)
	}
}
