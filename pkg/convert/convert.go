// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides quick type-conversion utilities.

It wraps [strconv] to provide fault-tolerant conversions for query parameters,
returning a caller-supplied default instead of an error when parsing fails.

Do not use this package if distinguishing between malformed data and zero values
is important in your domain logic; use explicit standard libraries instead.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning the provided default if parsing fails or string is empty.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}

// ToFloat64D converts a string to a float64 with the same fallback rules as [ToIntD].
func ToFloat64D(str string, def float64) float64 {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.ParseFloat(str, 64); err == nil {
		return v
	}

	return def
}
