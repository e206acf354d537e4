// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Provider Access

// Provider is the hosted identity service.
type Provider interface {

	/*
		SignUp registers a new account.

		Returns:
		  - *Session: Session with an empty AccessToken when email confirmation is pending
		  - error: Provider errors mapped to [apperr.AppError]
	*/
	SignUp(context context.Context, email, password string, metadata map[string]any) (*Session, error)

	// SignIn exchanges credentials for a session.
	SignIn(context context.Context, email, password string) (*Session, error)

	// SignOut revokes the session behind accessToken.
	SignOut(context context.Context, accessToken string) error

	// GetUser resolves the account behind accessToken.
	GetUser(context context.Context, accessToken string) (*User, error)
}

// # Volatile Data Access

// SessionCache remembers which user an access token belongs to.
type SessionCache interface {
	Get(context context.Context, accessToken string) (*User, bool, error)
	Set(context context.Context, accessToken string, user *User, ttl time.Duration) error
	Delete(context context.Context, accessToken string) error
}
