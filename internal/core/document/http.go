// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	requestutil "github.com/taibuivan/bayan/internal/platform/request"
	"github.com/taibuivan/bayan/internal/platform/respond"
)

// Handler serves the document listing and document bytes.
type Handler struct {
	service *Service
	dir     string
}

// NewHandler creates a document handler. dir is served under [PublicPrefix].
func NewHandler(service *Service, dir string) *Handler {
	return &Handler{service: service, dir: dir}
}

// RegisterRoutes mounts the listing API.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listDocuments)
	router.Get("/{name}", handler.getDocument)
}

// listDocuments returns a bare JSON array, the shape the viewer's file picker consumes.
func (handler *Handler) listDocuments(writer http.ResponseWriter, request *http.Request) {
	documents, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, documents)
}

func (handler *Handler) getDocument(writer http.ResponseWriter, request *http.Request) {
	info, err := handler.service.Info(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, info)
}

// Files serves document bytes under [PublicPrefix]. Directory listings are not exposed.
func (handler *Handler) Files() http.Handler {
	files := http.StripPrefix(PublicPrefix, http.FileServer(http.Dir(handler.dir)))

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if strings.HasSuffix(request.URL.Path, "/") {
			respond.Error(writer, request, apperr.NotFound("Document"))
			return
		}
		writer.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(writer, request)
	})
}
