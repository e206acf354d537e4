// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bayan/internal/platform/sec"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signClaims(t *testing.T, key *rsa.PrivateKey, claims *sec.AuthClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() *sec.AuthClaims {
	now := time.Now()
	return &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "8a3c1b7e-0000-4000-8000-000000000001",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:       "reader@bayan.app",
		Role:        "authenticated",
		AppMetadata: sec.AppMetadata{Role: "editor"},
	}
}

/*
TestVerifyToken_Valid checks that a correctly signed token yields populated claims.
*/
func TestVerifyToken_Valid(t *testing.T) {
	key := newTestKey(t)
	verifier := sec.NewTokenVerifier(func(*jwt.Token) (any, error) { return &key.PublicKey, nil }, "authenticated")

	claims, err := verifier.VerifyToken(signClaims(t, key, validClaims()))
	require.NoError(t, err)

	assert.Equal(t, "8a3c1b7e-0000-4000-8000-000000000001", claims.UserID)
	assert.Equal(t, sec.RoleEditor, claims.AppRole())
	assert.Equal(t, "reader@bayan.app", claims.DisplayName())
}

/*
TestVerifyToken_Rejections covers the failure paths.
*/
func TestVerifyToken_Rejections(t *testing.T) {
	key := newTestKey(t)
	other := newTestKey(t)
	verifier := sec.NewTokenVerifier(func(*jwt.Token) (any, error) { return &key.PublicKey, nil }, "authenticated")

	t.Run("wrong_key", func(t *testing.T) {
		_, err := verifier.VerifyToken(signClaims(t, other, validClaims()))
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.VerifyToken(signClaims(t, key, claims))
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("anonymous_role", func(t *testing.T) {
		claims := validClaims()
		claims.Role = "anon"
		_, err := verifier.VerifyToken(signClaims(t, key, claims))
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("hmac_algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
		signed, err := token.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		_, err = verifier.VerifyToken(signed)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.VerifyToken("not-a-jwt")
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})
}

/*
TestUserRole_AtLeast checks the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleEditor))
	assert.False(t, sec.UserRole("ghost").AtLeast(sec.RoleMember))
}

/*
TestHashToken checks the digest is stable and hides the input.
*/
func TestHashToken(t *testing.T) {
	first := sec.HashToken("secret-token")
	assert.Len(t, first, 64)
	assert.Equal(t, first, sec.HashToken("secret-token"))
	assert.NotContains(t, first, "secret")
	assert.NotEqual(t, first, sec.HashToken("other-token"))
}
