// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package document lists and describes the PDF files in the document library.
package document

import (
	"net/url"
	"time"
)

// PublicPrefix is the URL path under which document bytes are served.
const PublicPrefix = "/pdfs"

// Document is a listing entry. Path is a same-origin URL.
type Document struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Info describes one document in detail.
type Info struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	PageCount  int       `json:"page_count"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// PublicPath returns the URL of the named document, escaped as a single path segment.
func PublicPath(name string) string {
	return PublicPrefix + "/" + url.PathEscape(name)
}
