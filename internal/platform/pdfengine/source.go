// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pdfengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Blob is the raw bytes of one document with random access.
type Blob struct {
	io.ReaderAt
	Size int64

	// Version changes whenever the document's bytes change (mtime, ETag).
	Version string

	close func() error
}

// Close releases the underlying file, if any.
func (b *Blob) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Source resolves a document name to its bytes.
type Source interface {
	Fetch(ctx context.Context, name string) (*Blob, error)
}

// ErrInvalidName rejects names that are empty, absolute or escape the root.
var ErrInvalidName = errors.New("pdfengine: invalid document name")

// cleanName accepts only local, slash-free file names.
func cleanName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

// # Local directory

// FileSource reads documents from one directory. Names may not contain path
// separators, so nothing outside the directory is reachable.
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir returns the root directory.
func (s *FileSource) Dir() string { return s.dir }

// Fetch implements [Source].
func (s *FileSource) Fetch(_ context.Context, name string) (*Blob, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, fmt.Errorf("pdfengine: open documents dir: %w", err)
	}
	defer root.Close()

	file, err := root.Open(name)
	if err != nil {
		return nil, fmt.Errorf("pdfengine: open %s: %w", name, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("pdfengine: stat %s: %w", name, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("pdfengine: %s is a directory: %w", name, fs.ErrNotExist)
	}

	return &Blob{
		ReaderAt: file,
		Size:     info.Size(),
		Version:  strconv.FormatInt(info.ModTime().UnixNano(), 36) + "-" + strconv.FormatInt(info.Size(), 36),
		close:    file.Close,
	}, nil
}

// NewSource picks the document source: [HTTPSource] under baseURL when it is
// set, otherwise [FileSource] over dir.
func NewSource(dir, baseURL string, client *http.Client) Source {
	if strings.TrimSpace(baseURL) != "" {
		return NewHTTPSource(baseURL, client)
	}
	return NewFileSource(dir)
}

// # Same-origin URL

// maxRemoteBytes bounds documents fetched over HTTP.
const maxRemoteBytes = 64 << 20

// HTTPSource fetches documents from "<base>/<name>", typically the site's own
// /pdfs path. Failures are reported as-is; there is no retry.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource creates a source for documents under baseURL. A nil client
// uses a client with a 30s timeout.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{base: strings.TrimRight(baseURL, "/"), client: client}
}

// Fetch implements [Source].
func (s *HTTPSource) Fetch(ctx context.Context, name string) (*Blob, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("pdfengine: build request: %w", err)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("pdfengine: fetch %s: %w", name, err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("pdfengine: fetch %s: %w", name, fs.ErrNotExist)
	case response.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("pdfengine: fetch %s: unexpected status %d", name, response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxRemoteBytes+1))
	if err != nil {
		return nil, fmt.Errorf("pdfengine: read %s: %w", name, err)
	}
	if len(body) > maxRemoteBytes {
		return nil, fmt.Errorf("pdfengine: %s exceeds %d bytes", name, maxRemoteBytes)
	}

	version := response.Header.Get("ETag")
	if version == "" {
		version = response.Header.Get("Last-Modified")
	}
	if version == "" {
		version = strconv.Itoa(len(body))
	}

	return &Blob{
		ReaderAt: bytes.NewReader(body),
		Size:     int64(len(body)),
		Version:  strings.Trim(version, `"`),
	}, nil
}
