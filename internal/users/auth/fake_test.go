// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bayan/internal/users/auth"
)

const testAnonKey = "anon-key"

// fakeGoTrue is a minimal in-memory Supabase Auth server.
type fakeGoTrue struct {
	mu          sync.Mutex
	users       map[string]string // email -> password
	tokens      map[string]string // access token -> email
	confirm     bool
	userCalls   int
	logoutCalls int
}

func newFakeGoTrue(t *testing.T) (*fakeGoTrue, *httptest.Server) {
	t.Helper()

	fake := &fakeGoTrue{users: make(map[string]string), tokens: make(map[string]string)}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(server.Close)
	return fake, server
}

func (f *fakeGoTrue) serve(writer http.ResponseWriter, request *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if request.Header.Get("apikey") != testAnonKey {
		writeJSON(writer, http.StatusUnauthorized, map[string]any{"message": "Invalid API key"})
		return
	}

	var body struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if request.Body != nil {
		_ = json.NewDecoder(request.Body).Decode(&body)
	}
	bearer := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")

	switch {
	case request.Method == http.MethodPost && request.URL.Path == "/auth/v1/signup":
		if _, exists := f.users[body.Email]; exists {
			writeJSON(writer, http.StatusUnprocessableEntity, map[string]any{
				"code": 422, "error_code": "user_already_exists", "msg": "User already registered",
			})
			return
		}
		f.users[body.Email] = body.Password
		user := map[string]any{"id": "id-" + body.Email, "email": body.Email, "user_metadata": body.Data}
		if f.confirm {
			writeJSON(writer, http.StatusOK, user)
			return
		}
		writeJSON(writer, http.StatusOK, f.issue(body.Email, user))

	case request.Method == http.MethodPost && request.URL.Path == "/auth/v1/token":
		if request.URL.Query().Get("grant_type") != "password" || f.users[body.Email] != body.Password || body.Password == "" {
			writeJSON(writer, http.StatusBadRequest, map[string]any{
				"error": "invalid_grant", "error_description": "Invalid login credentials",
			})
			return
		}
		writeJSON(writer, http.StatusOK, f.issue(body.Email, map[string]any{"id": "id-" + body.Email, "email": body.Email}))

	case request.Method == http.MethodPost && request.URL.Path == "/auth/v1/logout":
		f.logoutCalls++
		if _, ok := f.tokens[bearer]; !ok {
			writeJSON(writer, http.StatusUnauthorized, map[string]any{"msg": "invalid JWT"})
			return
		}
		delete(f.tokens, bearer)
		writer.WriteHeader(http.StatusNoContent)

	case request.Method == http.MethodGet && request.URL.Path == "/auth/v1/user":
		f.userCalls++
		email, ok := f.tokens[bearer]
		if !ok {
			writeJSON(writer, http.StatusUnauthorized, map[string]any{"msg": "invalid JWT"})
			return
		}
		writeJSON(writer, http.StatusOK, map[string]any{
			"id": "id-" + email, "email": email,
			"app_metadata": map[string]any{"provider": "email", "role": "editor"},
		})

	default:
		writeJSON(writer, http.StatusNotFound, map[string]any{"msg": "not found"})
	}
}

func (f *fakeGoTrue) issue(email string, user map[string]any) map[string]any {
	token := "token-" + email
	f.tokens[token] = email
	return map[string]any{
		"access_token":  token,
		"refresh_token": "refresh-" + email,
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    time.Now().Add(time.Hour).Unix(),
		"user":          user,
	}
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

// recorder collects hub events.
type recorder struct {
	mu     sync.Mutex
	events []auth.Event
}

func (r *recorder) record(event auth.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) types() []auth.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]auth.EventType, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}

type harness struct {
	fake    *fakeGoTrue
	redis   *miniredis.Miniredis
	service *auth.Service
	events  *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fake, server := newFakeGoTrue(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := auth.NewSessionHub()
	events := &recorder{}
	hub.Subscribe(events.record)

	service := auth.NewService(
		auth.NewGoTrueClient(server.URL, testAnonKey, server.Client()),
		auth.NewSessionCache(client),
		hub,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NotNil(t, service)

	return &harness{fake: fake, redis: mr, service: service, events: events}
}
