// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bayan/pkg/convert"
)

/*
TestToIntD covers the fallback rules.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 7, convert.ToIntD("7", 1))
	assert.Equal(t, 7, convert.ToIntD(" 7 ", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))
	assert.Equal(t, 1, convert.ToIntD("seven", 1))
}

/*
TestToFloat64D covers the fallback rules.
*/
func TestToFloat64D(t *testing.T) {
	assert.Equal(t, 1.5, convert.ToFloat64D("1.5", 0))
	assert.Equal(t, 2.0, convert.ToFloat64D("x", 2))
	assert.Equal(t, 2.0, convert.ToFloat64D("", 2))
}
