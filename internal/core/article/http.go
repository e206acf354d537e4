// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/bayan/internal/locale"
	requestutil "github.com/taibuivan/bayan/internal/platform/request"
	"github.com/taibuivan/bayan/internal/platform/respond"
	"github.com/taibuivan/bayan/pkg/pagination"
)

// draftFields lists the form fields in the order they are folded into a draft.
var draftFields = []Field{FieldLang, FieldTitle, FieldExcerpt, FieldContent, FieldAuthor}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listArticles)
	router.Post("/", handler.createArticle)
	router.Get("/{id}", handler.getArticle)
	router.Delete("/{id}", handler.deleteArticle)
}

func (handler *Handler) listArticles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Lang: locale.Locale(request.URL.Query().Get("lang"))}

	articles, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, articles, pagination.NewMeta(params, total))
}

func (handler *Handler) getArticle(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

func (handler *Handler) createArticle(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload map[string]string
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Fold the submitted fields into a fresh draft
	draft := NewDraft(locale.Default)
	for _, field := range draftFields {
		if value, ok := payload[string(field)]; ok {
			draft = ReduceDraft(draft, SetField{Field: field, Value: value})
		}
	}

	article, err := handler.service.Create(request.Context(), draft, claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, article)
}

func (handler *Handler) deleteArticle(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id"), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
