// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/internal/viewer"
)

// # Service Layer

// Service scans the library directory and inspects documents through the
// rendering engine.
type Service struct {
	dir    string
	engine viewer.Engine
	logger *slog.Logger
}

// NewService constructs a [Service] over dir.
func NewService(dir string, engine viewer.Engine, logger *slog.Logger) *Service {
	return &Service{dir: dir, engine: engine, logger: logger}
}

/*
List returns every PDF file directly inside the library directory.

Description: The scan is non-recursive and sorted by name. Hidden files and
anything that is not a regular file are skipped. A missing directory yields
an empty list.

Returns:
  - []Document: Name and public path per file
  - error: Directory read failures other than "not found"
*/
func (service *Service) List(context context.Context) ([]Document, error) {
	entries, err := os.ReadDir(service.dir)
	if errors.Is(err, fs.ErrNotExist) {
		service.logger.WarnContext(context, "documents_dir_missing", slog.String("dir", service.dir))
		return []Document{}, nil
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("document: read dir: %w", err))
	}

	documents := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if !isListable(entry) {
			continue
		}
		documents = append(documents, Document{Name: entry.Name(), Path: PublicPath(entry.Name())})
	}

	sort.Slice(documents, func(i, j int) bool { return documents[i].Name < documents[j].Name })
	return documents, nil
}

/*
Info opens a document and reports its page count, size and modification time.

Returns:
  - *Info: The document description
  - error: NotFound for unknown names, Unprocessable for unreadable PDFs
*/
func (service *Service) Info(context context.Context, name string) (*Info, error) {
	if !isPDFName(name) || strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) {
		return nil, apperr.NotFound("Document")
	}

	stat, err := os.Stat(filepath.Join(service.dir, name))
	if err != nil || !stat.Mode().IsRegular() {
		return nil, apperr.NotFound("Document")
	}

	opened, err := service.engine.Open(context, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("Document")
		}
		service.logger.WarnContext(context, "document_unreadable",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, apperr.Unprocessable("Document could not be read")
	}
	defer opened.Close()

	return &Info{
		Name:       name,
		Path:       PublicPath(name),
		PageCount:  opened.PageCount(),
		SizeBytes:  stat.Size(),
		ModifiedAt: stat.ModTime().UTC(),
	}, nil
}

func isListable(entry fs.DirEntry) bool {
	return entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") && isPDFName(entry.Name())
}

func isPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
