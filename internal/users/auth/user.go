// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements sign-up, sign-in and session handling on top of the
hosted Supabase Auth (GoTrue) service.

# Architecture

Credentials never touch this server's database. The [Service] forwards them
to the provider, caches the resolved user per access token in Redis, and
announces sign-in and sign-out through a [SessionHub] so other components
can react (audit logging, closing viewer sessions).
*/
package auth

import (
	"time"

	"github.com/taibuivan/bayan/internal/platform/sec"
)

// # Domain Entities

// User is the provider's view of an account.
type User struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Role         string          `json:"role,omitempty"`
	AppMetadata  sec.AppMetadata `json:"app_metadata"`
	UserMetadata map[string]any  `json:"user_metadata,omitempty"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DisplayName returns the chosen name from metadata, or the email.
func (u *User) DisplayName() string {
	if name, ok := u.UserMetadata[metadataFullName].(string); ok && name != "" {
		return name
	}
	return u.Email
}

// AppRole returns the application role, defaulting to [sec.RoleMember].
func (u *User) AppRole() sec.UserRole {
	if u.AppMetadata.Role == "" {
		return sec.RoleMember
	}
	return sec.UserRole(u.AppMetadata.Role)
}

// Session is a signed-in provider session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"

	// metadataFullName is the user_metadata key the provider's clients use for names.
	metadataFullName = "full_name"
)
