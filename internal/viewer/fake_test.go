// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bayan/internal/viewer"
)

// fakeDocument serves fixed page text. Pages listed in failing return an
// error; gates block PageText for a page until the channel is closed.
type fakeDocument struct {
	pages   []string
	size    viewer.Size
	failing map[int]bool
	gates   map[int]chan struct{}

	mu     sync.Mutex
	closed bool
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) PageSize(page int) (viewer.Size, error) {
	if page < 1 || page > len(d.pages) {
		return viewer.Size{}, fmt.Errorf("page %d out of range", page)
	}
	return d.size, nil
}

func (d *fakeDocument) PageText(ctx context.Context, page int) (string, error) {
	if gate, ok := d.gates[page]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if d.failing[page] {
		return "", errors.New("corrupt content stream")
	}
	return d.pages[page-1], nil
}

func (d *fakeDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDocument) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// fakeEngine hands out documents by source name.
type fakeEngine struct {
	documents map[string]viewer.Document
	openErr   error
}

func (e *fakeEngine) Open(_ context.Context, source string) (viewer.Document, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	document, ok := e.documents[source]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", source, fs.ErrNotExist)
	}
	return document, nil
}

func tenPageDocument() *fakeDocument {
	pages := make([]string, 10)
	for i := range pages {
		pages[i] = fmt.Sprintf("page %d body", i+1)
	}
	return &fakeDocument{pages: pages, size: viewer.Size{Width: 612, Height: 792}}
}

// loadedController returns a ready controller over document.
func loadedController(t *testing.T, document viewer.Document) *viewer.Controller {
	t.Helper()

	engine := &fakeEngine{documents: map[string]viewer.Document{"doc.pdf": document}}
	controller := viewer.NewController(context.Background(), engine, "doc.pdf")
	controller.Load()
	t.Cleanup(func() { _ = controller.Close() })

	require.Equal(t, viewer.PhaseReady, controller.State().Phase)
	return controller
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("search did not settle")
	}
}
