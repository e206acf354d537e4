// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/internal/platform/respond"
)

// DictionaryResponse is the payload of the dictionary endpoint.
type DictionaryResponse struct {
	Locale   Locale  `json:"locale"`
	Dir      string  `json:"dir"`
	Messages Catalog `json:"messages"`
}

// Page describes a localized marketing page.
type Page struct {
	Locale Locale `json:"locale"`
	Dir    string `json:"dir"`
	Path   string `json:"path"`
	Title  string `json:"title"`

	// Alternates maps every other locale to the same page's URL.
	Alternates map[Locale]string `json:"alternates"`
}

// Handler serves message catalogs and localized page descriptors.
type Handler struct {
	dictionaries *Dictionaries
	loader       Loader
}

// NewHandler wires the eager dictionaries (page titles) and a loader (catalog endpoint).
func NewHandler(dictionaries *Dictionaries, loader Loader) *Handler {
	return &Handler{dictionaries: dictionaries, loader: loader}
}

// RegisterDictionaryRoutes mounts GET /{locale} for catalogs.
func (handler *Handler) RegisterDictionaryRoutes(router chi.Router) {
	router.Get("/{locale}", handler.getDictionary)
}

// RegisterPageRoutes mounts the localized page tree. The router must be
// mounted under a "/{locale}" pattern.
func (handler *Handler) RegisterPageRoutes(router chi.Router) {
	router.Use(Scope())
	router.Get("/", handler.getPage)
	router.Get("/*", handler.getPage)
}

func (handler *Handler) getDictionary(writer http.ResponseWriter, request *http.Request) {
	requested, ok := Parse(chi.URLParam(request, "locale"))
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Dictionary"))
		return
	}

	catalog, err := handler.loader.Load(request.Context(), requested)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, DictionaryResponse{
		Locale:   requested,
		Dir:      requested.Direction(),
		Messages: catalog,
	})
}

func (handler *Handler) getPage(writer http.ResponseWriter, request *http.Request) {
	current := FromContext(request.Context())

	pagePath := "/" + strings.Trim(chi.URLParam(request, "*"), "/")
	slug := "home"
	if pagePath != "/" {
		slug, _, _ = strings.Cut(strings.TrimPrefix(pagePath, "/"), "/")
	}

	title, ok := handler.dictionaries.Lookup(current, "pages."+slug+".title")
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Page"))
		return
	}

	alternates := make(map[Locale]string, len(Supported)-1)
	for _, other := range Supported {
		if other != current {
			alternates[other] = Localize(other, pagePath)
		}
	}

	respond.OK(writer, Page{
		Locale:     current,
		Dir:        current.Direction(),
		Path:       Localize(current, pagePath),
		Title:      title,
		Alternates: alternates,
	})
}
