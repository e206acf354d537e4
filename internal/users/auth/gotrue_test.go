// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/internal/users/auth"
)

/*
TestGoTrueClient_Flow signs up, signs in, resolves and signs out.
*/
func TestGoTrueClient_Flow(t *testing.T) {
	_, server := newFakeGoTrue(t)
	client := auth.NewGoTrueClient(server.URL+"/", testAnonKey, server.Client())
	ctx := context.Background()

	session, err := client.SignUp(ctx, "a@example.com", "secret1", map[string]any{"full_name": "Amal"})
	require.NoError(t, err)
	assert.Equal(t, "token-a@example.com", session.AccessToken)
	assert.Equal(t, "Amal", session.User.DisplayName())
	assert.False(t, session.ExpiresAt.IsZero())

	session, err = client.SignIn(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 3600, session.ExpiresIn)

	user, err := client.GetUser(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "id-a@example.com", user.ID)
	assert.Equal(t, "editor", string(user.AppRole()))

	require.NoError(t, client.SignOut(ctx, session.AccessToken))

	_, err = client.GetUser(ctx, session.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
}

/*
TestGoTrueClient_PendingConfirmation returns the user without a token.
*/
func TestGoTrueClient_PendingConfirmation(t *testing.T) {
	fake, server := newFakeGoTrue(t)
	fake.confirm = true
	client := auth.NewGoTrueClient(server.URL, testAnonKey, server.Client())

	session, err := client.SignUp(context.Background(), "b@example.com", "secret1", nil)
	require.NoError(t, err)
	assert.Empty(t, session.AccessToken)
	require.NotNil(t, session.User)
	assert.Equal(t, "id-b@example.com", session.User.ID)
}

/*
TestGoTrueClient_Errors maps provider failures without retrying.
*/
func TestGoTrueClient_Errors(t *testing.T) {
	_, server := newFakeGoTrue(t)
	ctx := context.Background()
	client := auth.NewGoTrueClient(server.URL, testAnonKey, server.Client())

	_, err := client.SignUp(ctx, "c@example.com", "secret1", nil)
	require.NoError(t, err)

	_, err = client.SignUp(ctx, "c@example.com", "secret1", nil)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	assert.Equal(t, "User already registered", appErr.Message)

	_, err = client.SignIn(ctx, "c@example.com", "wrong")
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	assert.Equal(t, "Invalid login credentials", appErr.Message)

	wrongKey := auth.NewGoTrueClient(server.URL, "nope", server.Client())
	_, err = wrongKey.SignIn(ctx, "c@example.com", "secret1")
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	calls := 0
	broken := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		calls++
		writer.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	_, err = auth.NewGoTrueClient(broken.URL, testAnonKey, broken.Client()).SignIn(ctx, "c@example.com", "secret1")
	assert.Equal(t, http.StatusBadGateway, apperr.As(err).HTTPStatus)
	assert.Equal(t, 1, calls)
}
