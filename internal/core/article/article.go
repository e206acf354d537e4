// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package article implements the bilingual article catalogue stored in the
// hosted Postgres database.
package article

import (
	"time"

	"github.com/taibuivan/bayan/internal/locale"
)

// # Domain Entities

// Article is a published piece of rich-text content in one language.
type Article struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Lang      locale.Locale `json:"lang"`
	Author    string        `json:"author"`
	AuthorID  string        `json:"author_id,omitempty"`
	Title     string        `json:"title"`
	Excerpt   string        `json:"excerpt"`

	// Content is sanitized HTML.
	Content string `json:"content"`
}

// Filter narrows article listings.
type Filter struct {
	// Lang restricts results to one language when set.
	Lang locale.Locale
}

// # Limits

const (
	MaxTitleLength   = 200
	MaxExcerptLength = 500
	MaxAuthorLength  = 100

	// derivedExcerptLength is used when an excerpt is generated from content.
	derivedExcerptLength = 200
)
