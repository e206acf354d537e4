// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bayan/internal/platform/apperr"
)

/*
TestFromUpstream checks that provider statuses keep their meaning.
*/
func TestFromUpstream(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   int
	}{
		{"bad_request", http.StatusBadRequest, http.StatusUnprocessableEntity},
		{"unauthorized", http.StatusUnauthorized, http.StatusUnauthorized},
		{"conflict", http.StatusConflict, http.StatusConflict},
		{"throttled", http.StatusTooManyRequests, http.StatusTooManyRequests},
		{"server_error", http.StatusInternalServerError, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apperr.FromUpstream(tt.status, "provider said no", nil)
			assert.Equal(t, tt.want, err.HTTPStatus)
			assert.Equal(t, "provider said no", err.Message)
		})
	}
}

/*
TestAs checks extraction through a wrapped chain.
*/
func TestAs(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	wrapped := fmt.Errorf("article_service: %w", apperr.Internal(cause))

	ae := apperr.As(wrapped)
	if assert.NotNil(t, ae) {
		assert.Equal(t, "INTERNAL_ERROR", ae.Code)
		assert.ErrorIs(t, ae, cause)
	}

	assert.Nil(t, apperr.As(cause))
	assert.True(t, apperr.IsAppError(wrapped))
}
