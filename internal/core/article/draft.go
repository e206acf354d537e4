// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"strings"

	"github.com/taibuivan/bayan/internal/locale"
	"github.com/taibuivan/bayan/internal/platform/validate"
)

// Field names a draft field. The values double as JSON keys.
type Field string

const (
	FieldTitle   Field = "title"
	FieldExcerpt Field = "excerpt"
	FieldContent Field = "content"
	FieldLang    Field = "lang"
	FieldAuthor  Field = "author"
)

// Draft is the editable state of an article before it is published.
type Draft struct {
	Title   string
	Excerpt string
	Content string
	Lang    locale.Locale
	Author  string
}

// NewDraft returns an empty draft in lang.
func NewDraft(lang locale.Locale) Draft {
	return Draft{Lang: lang}
}

// SetField replaces one draft field.
type SetField struct {
	Field Field
	Value string
}

// ReduceDraft applies cmd and returns the new draft. Unknown fields leave the
// draft unchanged.
func ReduceDraft(draft Draft, cmd SetField) Draft {
	switch cmd.Field {
	case FieldTitle:
		draft.Title = cmd.Value
	case FieldExcerpt:
		draft.Excerpt = cmd.Value
	case FieldContent:
		draft.Content = cmd.Value
	case FieldLang:
		draft.Lang = locale.Locale(cmd.Value)
	case FieldAuthor:
		draft.Author = cmd.Value
	}
	return draft
}

// Normalize trims surrounding whitespace from the plain-text fields.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Excerpt = strings.TrimSpace(d.Excerpt)
	d.Author = strings.TrimSpace(d.Author)
	d.Lang = locale.Locale(strings.TrimSpace(string(d.Lang)))
	return d
}

// Validate checks lengths, language and required fields.
func (d Draft) Validate() error {
	validator := &validate.Validator{}

	validator.Required(string(FieldTitle), d.Title).MaxLen(string(FieldTitle), d.Title, MaxTitleLength)
	validator.MaxLen(string(FieldExcerpt), d.Excerpt, MaxExcerptLength)
	validator.Required(string(FieldContent), d.Content)
	validator.MaxLen(string(FieldAuthor), d.Author, MaxAuthorLength)
	validator.OneOf(string(FieldLang), string(d.Lang), string(locale.Arabic), string(locale.English))

	return validator.Err()
}
