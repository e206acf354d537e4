// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/internal/platform/constants"
	"github.com/taibuivan/bayan/internal/platform/validate"
)

// # Service Layer

// Service coordinates the auth provider, the session cache and the hub.
type Service struct {
	provider Provider
	cache    SessionCache
	hub      *SessionHub
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new [Service].
func NewService(provider Provider, cache SessionCache, hub *SessionHub, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		hub:      hub,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUpInput is a registration request.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
}

// # Session Lifecycle

/*
SignUp registers a new account with the provider.

Description: When the provider confirms accounts immediately a session is
returned and a sign-in is announced. Otherwise the session carries only the
user and an empty access token until the email is confirmed.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *Session: The new session or pending user
  - error: Validation or provider errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*Session, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldDisplayName, input.DisplayName, MaxDisplayNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var metadata map[string]any
	if input.DisplayName != "" {
		metadata = map[string]any{metadataFullName: input.DisplayName}
	}

	session, err := service.provider.SignUp(context, input.Email, input.Password, metadata)
	if err != nil {
		return nil, err
	}

	if session.AccessToken != "" {
		service.remember(context, session)
		service.announce(EventSignedIn, session.User)
	} else {
		service.logger.Info("auth_confirmation_pending", slog.String("user_id", userID(session.User)))
	}
	return session, nil
}

/*
SignIn exchanges email and password for a provider session.

Returns:
  - *Session: The signed-in session
  - error: Validation errors, or the provider's rejection (e.g. 401 invalid credentials)
*/
func (service *Service) SignIn(context context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Required(FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	session, err := service.provider.SignIn(context, email, password)
	if err != nil {
		return nil, err
	}

	service.remember(context, session)
	service.announce(EventSignedIn, session.User)
	return session, nil
}

/*
SignOut revokes the provider session and forgets the cached user.

Description: A token the provider no longer recognises is treated as
already signed out.

Parameters:
  - context: context.Context
  - accessToken: string
  - userID: string (The signed-out account, for subscribers)
*/
func (service *Service) SignOut(context context.Context, accessToken, userID string) error {
	err := service.provider.SignOut(context, accessToken)
	if err != nil && !isGone(err) {
		return err
	}

	if cacheErr := service.cache.Delete(context, accessToken); cacheErr != nil {
		service.logger.Warn("auth_session_cache_failed", slog.String("error", cacheErr.Error()))
	}

	service.hub.Publish(Event{Type: EventSignedOut, UserID: userID, At: service.now()})
	return nil
}

/*
CurrentUser resolves the account behind accessToken.

Description: Cached lookups never outlive the token, and are further capped
by [constants.SessionCacheMaxTTL] so provider-side revocations are noticed.

Parameters:
  - context: context.Context
  - accessToken: string
  - expiresAt: time.Time (The token's expiry)

Returns:
  - *User: The account
  - error: Unauthorized for expired tokens, or provider errors
*/
func (service *Service) CurrentUser(context context.Context, accessToken string, expiresAt time.Time) (*User, error) {
	ttl := service.cacheTTL(expiresAt)
	if ttl <= 0 {
		return nil, apperr.Unauthorized("Session expired")
	}

	user, ok, err := service.cache.Get(context, accessToken)
	if err != nil {
		service.logger.Warn("auth_session_cache_failed", slog.String("error", err.Error()))
	}
	if ok {
		return user, nil
	}

	user, err = service.provider.GetUser(context, accessToken)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, accessToken, user, ttl); err != nil {
		service.logger.Warn("auth_session_cache_failed", slog.String("error", err.Error()))
	}
	return user, nil
}

// # Helpers

func (service *Service) cacheTTL(expiresAt time.Time) time.Duration {
	return min(expiresAt.Sub(service.now()), constants.SessionCacheMaxTTL)
}

func (service *Service) remember(context context.Context, session *Session) {
	if session.User == nil {
		return
	}
	ttl := service.cacheTTL(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if err := service.cache.Set(context, session.AccessToken, session.User, ttl); err != nil {
		service.logger.Warn("auth_session_cache_failed", slog.String("error", err.Error()))
	}
}

func (service *Service) announce(eventType EventType, user *User) {
	event := Event{Type: eventType, UserID: userID(user), At: service.now()}
	if user != nil {
		event.Email = user.Email
	}
	service.hub.Publish(event)
}

func userID(user *User) string {
	if user == nil {
		return ""
	}
	return user.ID
}

// isGone reports whether the provider has already forgotten the session.
func isGone(err error) bool {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == "UNAUTHORIZED" || appErr.Code == "NOT_FOUND" || appErr.Code == "FORBIDDEN"
}
