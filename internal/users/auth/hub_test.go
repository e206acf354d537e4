// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bayan/internal/users/auth"
)

/*
TestSessionHub delivers in order and stops after unsubscribe.
*/
func TestSessionHub(t *testing.T) {
	hub := auth.NewSessionHub()

	var order []string
	unsubscribeFirst := hub.Subscribe(func(event auth.Event) { order = append(order, "first:"+event.UserID) })
	hub.Subscribe(func(event auth.Event) { order = append(order, "second:"+event.UserID) })
	assert.Equal(t, 2, hub.Len())

	hub.Publish(auth.Event{Type: auth.EventSignedIn, UserID: "u1"})
	assert.Equal(t, []string{"first:u1", "second:u1"}, order)

	unsubscribeFirst()
	unsubscribeFirst()
	assert.Equal(t, 1, hub.Len())

	hub.Publish(auth.Event{Type: auth.EventSignedOut, UserID: "u2"})
	assert.Equal(t, []string{"first:u1", "second:u1", "second:u2"}, order)
}

/*
TestSessionHub_UnsubscribeDuringPublish does not deadlock.
*/
func TestSessionHub_UnsubscribeDuringPublish(t *testing.T) {
	hub := auth.NewSessionHub()

	calls := 0
	var unsubscribe func()
	unsubscribe = hub.Subscribe(func(auth.Event) {
		calls++
		unsubscribe()
	})

	hub.Publish(auth.Event{Type: auth.EventSignedIn})
	hub.Publish(auth.Event{Type: auth.EventSignedIn})

	assert.Equal(t, 1, calls)
	assert.Zero(t, hub.Len())
}
