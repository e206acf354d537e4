// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bayan/pkg/uuid"
)

/*
TestNew returns valid, time-ordered values.
*/
func TestNew(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, byte('7'), first[14])
}

/*
TestIsValid rejects non-canonical input.
*/
func TestIsValid(t *testing.T) {
	assert.True(t, uuid.IsValid("0190a6a0-6c1e-7d4e-9b1a-2f3c4d5e6f70"))
	assert.False(t, uuid.IsValid(""))
	assert.False(t, uuid.IsValid("not-a-uuid"))
	assert.False(t, uuid.IsValid("{0190a6a0-6c1e-7d4e-9b1a-2f3c4d5e6f70}"))
}
