// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user-supplied rich text. Safe for concurrent use.
type Sanitizer struct {
	content *bluemonday.Policy
	plain   *bluemonday.Policy
}

// NewSanitizer keeps common formatting in content and strips everything from plain text.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		content: bluemonday.UGCPolicy(),
		plain:   bluemonday.StrictPolicy(),
	}
}

// Content removes scripts, event handlers and unsafe URLs.
func (s *Sanitizer) Content(raw string) string {
	return strings.TrimSpace(s.content.Sanitize(raw))
}

// Plain strips all markup and returns unescaped text.
func (s *Sanitizer) Plain(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.plain.Sanitize(raw)))
}

// Excerpt derives a single-line summary of at most limit runes from HTML content.
func (s *Sanitizer) Excerpt(content string, limit int) string {
	if limit <= 0 {
		return ""
	}

	text := strings.Join(strings.Fields(s.Plain(content)), " ")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	cut := strings.TrimSpace(string(runes[:limit-1]))
	return cut + "…"
}
