// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bayan/internal/core/document"
	"github.com/taibuivan/bayan/internal/platform/pdfengine"
	"github.com/taibuivan/bayan/internal/platform/pdfengine/pdftest"
)

func newLibrary(t *testing.T) (string, *document.Handler) {
	t.Helper()

	dir := t.TempDir()
	files := map[string][]byte{
		"b-report.pdf":  pdftest.Text("one", "two"),
		"a-guide.PDF":   pdftest.Text("only page"),
		"notes.txt":     []byte("not a document"),
		".hidden.pdf":   pdftest.Text("hidden"),
		"corrupted.pdf": []byte("%PDF-1.4 garbage"),
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := pdfengine.NewEngine(pdfengine.NewFileSource(dir), nil, logger)
	service := document.NewService(dir, engine, logger)
	return dir, document.NewHandler(service, dir)
}

func newDocumentRouter(handler *document.Handler) http.Handler {
	router := chi.NewRouter()
	router.Route("/api/v1/documents", handler.RegisterRoutes)
	router.Handle(document.PublicPrefix+"/*", handler.Files())
	return router
}

/*
TestList returns sorted PDF files as a bare array.
*/
func TestList(t *testing.T) {
	_, handler := newLibrary(t)
	router := newDocumentRouter(handler)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var documents []document.Document
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &documents))
	assert.Equal(t, []document.Document{
		{Name: "a-guide.PDF", Path: "/pdfs/a-guide.PDF"},
		{Name: "b-report.pdf", Path: "/pdfs/b-report.pdf"},
		{Name: "corrupted.pdf", Path: "/pdfs/corrupted.pdf"},
	}, documents)
}

/*
TestPublicPath escapes characters that would break the URL.
*/
func TestPublicPath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"guide.pdf", "/pdfs/guide.pdf"},
		{"annual report.pdf", "/pdfs/annual%20report.pdf"},
		{"q&a #1?.pdf", "/pdfs/q&a%20%231%3F.pdf"},
		{"100%.pdf", "/pdfs/100%25.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, document.PublicPath(tt.name))
		})
	}
}

/*
TestList_MissingDir yields an empty array.
*/
func TestList_MissingDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	missing := filepath.Join(t.TempDir(), "absent")
	service := document.NewService(missing, pdfengine.NewEngine(pdfengine.NewFileSource(missing), nil, logger), logger)

	documents, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, documents)
	assert.NotNil(t, documents)
}

/*
TestInfo reports page counts and maps failures to HTTP statuses.
*/
func TestInfo(t *testing.T) {
	_, handler := newLibrary(t)
	router := newDocumentRouter(handler)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/documents/b-report.pdf", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data document.Info `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.PageCount)
	assert.Equal(t, "/pdfs/b-report.pdf", body.Data.Path)
	assert.Positive(t, body.Data.SizeBytes)

	tests := []struct {
		name string
		want int
	}{
		{"missing.pdf", http.StatusNotFound},
		{"notes.txt", http.StatusNotFound},
		{"folder.pdf", http.StatusNotFound},
		{"corrupted.pdf", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+tt.name, nil))
		assert.Equal(t, tt.want, recorder.Code, tt.name)
	}
}

/*
TestFiles serves document bytes but not directory listings.
*/
func TestFiles(t *testing.T) {
	_, handler := newLibrary(t)
	router := newDocumentRouter(handler)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/pdfs/b-report.pdf", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
	assert.True(t, len(recorder.Body.Bytes()) > 4 && string(recorder.Body.Bytes()[:5]) == "%PDF-")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/pdfs/", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
