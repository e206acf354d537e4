// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the repositories query, so SQL
// strings never hard-code identifiers.
package schema

// PublicArticleTable represents the 'public.articles' table
type PublicArticleTable struct {
	Table     string
	ID        string
	CreatedAt string
	Lang      string
	Author    string
	AuthorID  string
	Title     string
	Excerpt   string
	Content   string
}

// PublicArticle is the schema definition for public.articles
var PublicArticle = PublicArticleTable{
	Table:     "public.articles",
	ID:        "id",
	CreatedAt: "created_at",
	Lang:      "lang",
	Author:    "author",
	AuthorID:  "author_id",
	Title:     "title",
	Excerpt:   "excerpt",
	Content:   "content",
}

// Columns returns every column in select order.
func (t PublicArticleTable) Columns() []string {
	return []string{t.ID, t.CreatedAt, t.Lang, t.Author, t.AuthorID, t.Title, t.Excerpt, t.Content}
}
