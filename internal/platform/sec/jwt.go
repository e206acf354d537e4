// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides token verification and small cryptographic helpers.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. Tokens
// are issued by the hosted auth provider (Supabase); this package only verifies
// them against the provider's published JWKS and never signs anything itself.
package sec

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. The precise cause
// is wrapped for logging only.
var ErrInvalidToken = errors.New("sec: invalid token")

// AppMetadata is the provider-managed metadata block of a Supabase token.
// Only the service role can write it, so it is safe to read the app role from here.
type AppMetadata struct {
	Provider string `json:"provider,omitempty"`
	Role     string `json:"role,omitempty"`
}

// AuthClaims represents the payload of a Supabase access token.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email        string         `json:"email"`
	Role         string         `json:"role"`
	SessionID    string         `json:"session_id,omitempty"`
	AppMetadata  AppMetadata    `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`

	// UserID mirrors the 'sub' claim after verification.
	UserID string `json:"-"`
}

// AppRole returns the application role, defaulting to [RoleMember].
func (c *AuthClaims) AppRole() UserRole {
	if c.AppMetadata.Role == "" {
		return RoleMember
	}
	return UserRole(c.AppMetadata.Role)
}

// DisplayName returns the user's chosen name from metadata, or the email.
func (c *AuthClaims) DisplayName() string {
	if name, ok := c.UserMetadata["full_name"].(string); ok && name != "" {
		return name
	}
	return c.Email
}

// TokenVerifier validates Supabase access tokens.
type TokenVerifier struct {
	keyfunc      jwt.Keyfunc
	requiredRole string
}

// NewSupabaseVerifier creates a verifier that fetches public keys from the JWKS endpoint.
// keyfunc refreshes the key set in the background until ctx is cancelled.
func NewSupabaseVerifier(ctx context.Context, jwksURL, requiredRole string) (*TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("sec: JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("sec: failed to create JWKS client: %w", err)
	}

	return NewTokenVerifier(jwks.Keyfunc, requiredRole), nil
}

// NewTokenVerifier builds a verifier around an arbitrary key lookup function.
func NewTokenVerifier(kf jwt.Keyfunc, requiredRole string) *TokenVerifier {
	return &TokenVerifier{keyfunc: kf, requiredRole: requiredRole}
}

// VerifyToken checks the signature, expiry and role of a JWT string.
func (verifier *TokenVerifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, verifier.keyfunc,
		// Only asymmetric algorithms; prevents algorithm confusion.
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	if verifier.requiredRole != "" && claims.Role != verifier.requiredRole {
		return nil, fmt.Errorf("%w: role %q not allowed", ErrInvalidToken, claims.Role)
	}

	claims.UserID = claims.Subject
	return claims, nil
}
