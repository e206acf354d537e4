// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bayan/internal/locale"
	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/internal/platform/sec"
	"github.com/taibuivan/bayan/pkg/uuid"
)

// # Service Layer

// Service orchestrates publishing and browsing articles.
type Service struct {
	repo      Repository
	sanitizer *Sanitizer
	logger    *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		sanitizer: NewSanitizer(),
		logger:    logger,
	}
}

// # Article Lookups

/*
List returns one page of articles, newest first.

Parameters:
  - context: context.Context
  - filter: Filter (Optional language restriction)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []*Article: Matching articles
  - int: Total count matching the filter
  - error: Validation error for an unsupported language, or repository errors
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	if filter.Lang != "" {
		if _, ok := locale.Parse(string(filter.Lang)); !ok {
			return nil, 0, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   string(FieldLang),
				Message: "Must be one of: ar, en",
			})
		}
	}
	return service.repo.List(context, filter, limit, offset)
}

/*
Get fetches a single article by UUID.

Returns:
  - *Article: The article
  - error: NotFound for malformed or unknown identifiers
*/
func (service *Service) Get(context context.Context, id string) (*Article, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Article")
	}
	return service.repo.FindByID(context, id)
}

// # Article Management

/*
Create publishes a draft on behalf of the signed-in user.

Description: The draft is normalized and validated, its content sanitized,
and an excerpt derived from the content when none was supplied. The author
defaults to the session's display name.

Parameters:
  - context: context.Context
  - draft: Draft (The folded form state)
  - claims: *sec.AuthClaims (The publishing user)

Returns:
  - *Article: The persisted article, with its assigned identity
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, draft Draft, claims *sec.AuthClaims) (*Article, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	draft = draft.Normalize()
	draft.Content = service.sanitizer.Content(draft.Content)
	draft.Title = service.sanitizer.Plain(draft.Title)
	draft.Excerpt = service.sanitizer.Plain(draft.Excerpt)
	if draft.Author == "" {
		draft.Author = claims.DisplayName()
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if draft.Excerpt == "" {
		draft.Excerpt = service.sanitizer.Excerpt(draft.Content, derivedExcerptLength)
	}

	article := &Article{
		ID:       uuid.New(),
		Lang:     draft.Lang,
		Author:   draft.Author,
		AuthorID: claims.UserID,
		Title:    draft.Title,
		Excerpt:  draft.Excerpt,
		Content:  draft.Content,
	}

	if err := service.repo.Create(context, article); err != nil {
		return nil, err
	}

	service.logger.Info("article_created",
		slog.String("article_id", article.ID),
		slog.String("lang", string(article.Lang)),
		slog.String("author_id", article.AuthorID),
	)

	return article, nil
}

/*
Delete removes an article. Only its author or an admin may do so.

Returns:
  - error: NotFound, Forbidden, or persistence errors
*/
func (service *Service) Delete(context context.Context, id string, claims *sec.AuthClaims) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	article, err := service.Get(context, id)
	if err != nil {
		return err
	}

	if article.AuthorID != claims.UserID && !claims.AppRole().AtLeast(sec.RoleEditor) {
		return apperr.Forbidden("Only the author can delete this article")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("article_deleted",
		slog.String("article_id", id),
		slog.String("deleted_by", claims.UserID),
	)
	return nil
}
