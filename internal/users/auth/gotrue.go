// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/bayan/internal/platform/apperr"
)

// GoTrueClient talks to the Supabase Auth REST API with the project's anon key.
// Failures are returned as-is; nothing is retried.
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	now        func() time.Time
}

// NewGoTrueClient creates a client for the project at supabaseURL.
// A nil httpClient gets a client with a bounded timeout.
func NewGoTrueClient(supabaseURL, anonKey string, httpClient *http.Client) *GoTrueClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: providerTimeout}
	}
	return &GoTrueClient{
		baseURL:    strings.TrimRight(supabaseURL, "/") + "/auth/v1",
		anonKey:    anonKey,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// # Wire Types

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// tokenResponse is a session as the provider encodes it.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`
}

// errorResponse covers the error bodies of current and older provider versions.
type errorResponse struct {
	Message          string `json:"msg"`
	LegacyMessage    string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text() string {
	for _, candidate := range []string{e.Message, e.ErrorDescription, e.LegacyMessage, e.Error} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// # Endpoints

// SignUp calls POST /signup.
func (client *GoTrueClient) SignUp(context context.Context, email, password string, metadata map[string]any) (*Session, error) {
	var raw json.RawMessage
	body := credentials{Email: email, Password: password, Data: metadata}
	if err := client.do(context, http.MethodPost, "/signup", "", body, &raw); err != nil {
		return nil, err
	}

	var response tokenResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, apperr.BadGateway("Auth provider returned an unreadable response", err)
	}
	if response.AccessToken != "" {
		return client.session(response), nil
	}

	// Confirmation pending: the body is the user itself.
	user := &User{}
	if err := json.Unmarshal(raw, user); err != nil || user.ID == "" {
		return nil, apperr.BadGateway("Auth provider returned no user", err)
	}
	return &Session{User: user}, nil
}

// SignIn calls POST /token?grant_type=password.
func (client *GoTrueClient) SignIn(context context.Context, email, password string) (*Session, error) {
	var response tokenResponse
	body := credentials{Email: email, Password: password}
	if err := client.do(context, http.MethodPost, "/token?grant_type=password", "", body, &response); err != nil {
		return nil, err
	}
	if response.AccessToken == "" {
		return nil, apperr.BadGateway("Auth provider returned no session", nil)
	}
	return client.session(response), nil
}

// SignOut calls POST /logout with the user's token.
func (client *GoTrueClient) SignOut(context context.Context, accessToken string) error {
	return client.do(context, http.MethodPost, "/logout", accessToken, nil, nil)
}

// GetUser calls GET /user with the user's token.
func (client *GoTrueClient) GetUser(context context.Context, accessToken string) (*User, error) {
	user := &User{}
	if err := client.do(context, http.MethodGet, "/user", accessToken, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// # Transport

func (client *GoTrueClient) do(context context.Context, method, path, accessToken string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return apperr.Internal(fmt.Errorf("gotrue: encode request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(context, method, client.baseURL+path, body)
	if err != nil {
		return apperr.Internal(fmt.Errorf("gotrue: build request: %w", err))
	}

	request.Header.Set("apikey", client.anonKey)
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	bearer := client.anonKey
	if accessToken != "" {
		bearer = accessToken
	}
	request.Header.Set("Authorization", "Bearer "+bearer)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return apperr.BadGateway("Auth provider is unreachable", fmt.Errorf("gotrue %s %s: %w", method, path, err))
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxProviderBody))
	if err != nil {
		return apperr.BadGateway("Auth provider response was interrupted", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		var failure errorResponse
		_ = json.Unmarshal(raw, &failure)

		message := failure.text()
		if message == "" {
			message = http.StatusText(response.StatusCode)
		}
		// The password grant reports bad credentials as a 400.
		if failure.Error == "invalid_grant" {
			return apperr.Unauthorized(message)
		}
		return apperr.FromUpstream(response.StatusCode, message,
			fmt.Errorf("gotrue %s %s: status %d: %s", method, path, response.StatusCode, message))
	}

	if target == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return apperr.BadGateway("Auth provider returned an unreadable response", err)
	}
	return nil
}

func (client *GoTrueClient) session(response tokenResponse) *Session {
	expiresAt := time.Unix(response.ExpiresAt, 0).UTC()
	if response.ExpiresAt == 0 {
		expiresAt = client.now().Add(time.Duration(response.ExpiresIn) * time.Second).UTC()
	}

	return &Session{
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
		TokenType:    response.TokenType,
		ExpiresIn:    response.ExpiresIn,
		ExpiresAt:    expiresAt,
		User:         response.User,
	}
}
