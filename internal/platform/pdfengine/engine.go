// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pdfengine adapts github.com/ledongthuc/pdf to the viewer's rendering
engine contract: page count, page size and plain text per page.

Documents come from a [Source] (a local directory or a same-origin URL).
Extracted text can be cached in Redis through a [TextCache], keyed by document
version so an edited file never serves stale text.
*/
package pdfengine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/taibuivan/bayan/internal/viewer"
)

// letter is the page size used when a page declares no usable MediaBox.
var letter = viewer.Size{Width: 612, Height: 792}

// Engine opens PDF documents from a source.
type Engine struct {
	source Source
	cache  TextCache
	logger *slog.Logger
}

// NewEngine creates an engine. cache may be nil.
func NewEngine(source Source, cache TextCache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, cache: cache, logger: logger}
}

// Open implements viewer.Engine.
func (e *Engine) Open(ctx context.Context, name string) (viewer.Document, error) {
	blob, err := e.source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	reader, err := newReader(blob)
	if err != nil {
		_ = blob.Close()
		return nil, err
	}

	return &Document{
		name:   name,
		blob:   blob,
		reader: reader,
		pages:  reader.NumPage(),
		cache:  e.cache,
		logger: e.logger,
	}, nil
}

// newReader parses the document trailer. The parser panics on some malformed
// input, which is reported as an error.
func newReader(blob *Blob) (reader *lpdf.Reader, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			reader, err = nil, fmt.Errorf("pdfengine: malformed document: %v", recovered)
		}
	}()

	reader, err = lpdf.NewReader(blob, blob.Size)
	if err != nil {
		return nil, fmt.Errorf("pdfengine: parse: %w", err)
	}
	return reader, nil
}

// Document is an opened PDF.
type Document struct {
	name   string
	blob   *Blob
	pages  int
	cache  TextCache
	logger *slog.Logger

	// The parser is not safe for concurrent use.
	mu     sync.Mutex
	reader *lpdf.Reader
}

// PageCount implements viewer.Document.
func (d *Document) PageCount() int { return d.pages }

// Version identifies the document bytes.
func (d *Document) Version() string { return d.blob.Version }

// SizeBytes is the document length.
func (d *Document) SizeBytes() int64 { return d.blob.Size }

// PageSize implements viewer.Document. The MediaBox is inherited from
// ancestor page-tree nodes when the page does not declare one.
func (d *Document) PageSize(page int) (size viewer.Size, err error) {
	if page < 1 || page > d.pages {
		return viewer.Size{}, fmt.Errorf("pdfengine: page %d out of range", page)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	defer func() {
		if recovered := recover(); recovered != nil {
			size, err = viewer.Size{}, fmt.Errorf("pdfengine: page %d: %v", page, recovered)
		}
	}()

	if d.reader == nil {
		return viewer.Size{}, fmt.Errorf("pdfengine: document closed")
	}

	for node := d.reader.Page(page).V; !node.IsNull(); node = node.Key("Parent") {
		box := node.Key("MediaBox")
		if box.Kind() != lpdf.Array || box.Len() != 4 {
			continue
		}

		width := math.Abs(box.Index(2).Float64() - box.Index(0).Float64())
		height := math.Abs(box.Index(3).Float64() - box.Index(1).Float64())
		if width > 0 && height > 0 {
			return viewer.Size{Width: width, Height: height}, nil
		}
	}

	return letter, nil
}

// PageText implements viewer.Document.
func (d *Document) PageText(ctx context.Context, page int) (string, error) {
	if page < 1 || page > d.pages {
		return "", fmt.Errorf("pdfengine: page %d out of range", page)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := TextKey(d.name, d.blob.Version, page)
	if d.cache != nil {
		text, found, err := d.cache.Get(ctx, key)
		if err != nil {
			d.logger.Warn("pdf_text_cache_read_failed", slog.String("key", key), slog.String("error", err.Error()))
		} else if found {
			return text, nil
		}
	}

	text, err := d.extract(page)
	if err != nil {
		return "", err
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, text); err != nil {
			d.logger.Warn("pdf_text_cache_write_failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return text, nil
}

func (d *Document) extract(page int) (text string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	defer func() {
		if recovered := recover(); recovered != nil {
			text, err = "", fmt.Errorf("pdfengine: page %d: %v", page, recovered)
		}
	}()

	if d.reader == nil {
		return "", fmt.Errorf("pdfengine: document closed")
	}

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}

	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("pdfengine: page %d: %w", page, err)
	}
	return text, nil
}

// Close implements viewer.Document.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reader = nil
	return d.blob.Close()
}
