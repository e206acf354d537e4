// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bayan/internal/platform/ctxutil"
	"github.com/taibuivan/bayan/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies that AuthClaims and the raw token can be stored in context.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	claims := &sec.AuthClaims{
		UserID: "user-123",
		Email:  "reader@bayan.app",
	}

	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Empty(t, ctxutil.GetAccessToken(ctx))

	ctx = ctxutil.WithAuthUser(ctx, claims)
	ctx = ctxutil.WithAccessToken(ctx, "token-abc")

	retrieved := ctxutil.GetAuthUser(ctx)
	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.UserID)
	assert.Equal(t, "token-abc", ctxutil.GetAccessToken(ctx))
}

/*
TestContext_Locale verifies the locale code round trip.
*/
func TestContext_Locale(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetLocale(ctx))

	ctx = ctxutil.WithLocale(ctx, "en")
	assert.Equal(t, "en", ctxutil.GetLocale(ctx))
}
