// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bayan/internal/core/article"
	"github.com/taibuivan/bayan/internal/locale"
	"github.com/taibuivan/bayan/internal/platform/apperr"
)

/*
TestReduceDraft folds field updates without touching other fields.
*/
func TestReduceDraft(t *testing.T) {
	draft := article.NewDraft(locale.Arabic)

	draft = article.ReduceDraft(draft, article.SetField{Field: article.FieldTitle, Value: "عنوان"})
	draft = article.ReduceDraft(draft, article.SetField{Field: article.FieldContent, Value: "<p>نص</p>"})
	draft = article.ReduceDraft(draft, article.SetField{Field: article.FieldLang, Value: "en"})
	draft = article.ReduceDraft(draft, article.SetField{Field: article.FieldTitle, Value: "Title"})

	assert.Equal(t, article.Draft{Title: "Title", Content: "<p>نص</p>", Lang: locale.English}, draft)

	unchanged := article.ReduceDraft(draft, article.SetField{Field: "slug", Value: "x"})
	assert.Equal(t, draft, unchanged)
}

/*
TestDraft_Validate covers each rule, counting Arabic text in characters.
*/
func TestDraft_Validate(t *testing.T) {
	valid := article.Draft{Title: "Title", Content: "<p>Body</p>", Lang: locale.English}

	tests := []struct {
		name   string
		mutate func(d *article.Draft)
		field  string
	}{
		{"valid", func(d *article.Draft) {}, ""},
		{"missing title", func(d *article.Draft) { d.Title = "  " }, "title"},
		{"long title", func(d *article.Draft) { d.Title = strings.Repeat("a", 201) }, "title"},
		{"arabic title at limit", func(d *article.Draft) { d.Title = strings.Repeat("ب", 200) }, ""},
		{"long excerpt", func(d *article.Draft) { d.Excerpt = strings.Repeat("ب", 501) }, "excerpt"},
		{"missing content", func(d *article.Draft) { d.Content = "" }, "content"},
		{"unsupported lang", func(d *article.Draft) { d.Lang = "fr" }, "lang"},
		{"empty lang", func(d *article.Draft) { d.Lang = "" }, "lang"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := valid
			tc.mutate(&draft)

			err := draft.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tc.field, appErr.Details[0].Field)
		})
	}
}

/*
TestSanitizer_Excerpt strips markup and shortens long text.
*/
func TestSanitizer_Excerpt(t *testing.T) {
	sanitizer := article.NewSanitizer()

	assert.Equal(t, "Hello world & more", sanitizer.Excerpt("<h1>Hello</h1>\n<p>world &amp; more</p>", 100))

	long := sanitizer.Excerpt("<p>"+strings.Repeat("ك", 300)+"</p>", 10)
	assert.Equal(t, 10, len([]rune(long)))
	assert.True(t, strings.HasSuffix(long, "…"))

	assert.Empty(t, sanitizer.Excerpt("<p>anything</p>", 0))
	assert.Empty(t, sanitizer.Excerpt("<p>anything</p>", -5))

	assert.NotContains(t, sanitizer.Content(`<p onclick="x()">ok</p><script>alert(1)</script>`), "script")
	assert.NotContains(t, sanitizer.Content(`<p onclick="x()">ok</p>`), "onclick")
}
