// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"errors"
	"io/fs"
)

// Engine opens documents for viewing. Implementations own parsing and text
// extraction; the viewer never looks at document bytes.
type Engine interface {
	Open(ctx context.Context, source string) (Document, error)
}

// Document is an opened document. Page numbers are 1-indexed.
type Document interface {
	PageCount() int
	PageSize(page int) (Size, error)
	PageText(ctx context.Context, page int) (string, error)
	Close() error
}

// ErrEmptyDocument is reported when a document opens but has no pages.
var ErrEmptyDocument = errors.New("viewer: document has no pages")

// ErrNoDocument is reported when an engine returns neither a document nor an error.
var ErrNoDocument = errors.New("viewer: engine returned no document")

// loadFailureReason turns an engine error into a message for the error phase.
func loadFailureReason(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "document not found"
	case errors.Is(err, ErrEmptyDocument):
		return "document has no pages"
	case errors.Is(err, ErrNoDocument):
		return "document could not be loaded"
	case errors.Is(err, context.DeadlineExceeded):
		return "document took too long to load"
	default:
		return "document could not be loaded: " + err.Error()
	}
}
