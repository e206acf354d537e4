// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bayan/internal/locale"
)

type redirectCounter struct {
	byLocale map[string]int
}

func (c *redirectCounter) ObserveLocaleRedirect(l string) { c.byLocale[l]++ }

func newRedirectHandler(observer locale.RedirectObserver) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	return locale.Redirect(locale.NewResolver(locale.Default), observer)(next)
}

/*
TestRedirect verifies 307 targets for unlocalized paths.
*/
func TestRedirect(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		header   string
		wantCode int
		wantLoc  string
	}{
		{"root to arabic", http.MethodGet, "/", "", http.StatusTemporaryRedirect, "/ar"},
		{"root to english", http.MethodGet, "/", "en-GB,en;q=0.9", http.StatusTemporaryRedirect, "/en"},
		{"nested path", http.MethodGet, "/about/team", "en", http.StatusTemporaryRedirect, "/en/about/team"},
		{"query preserved", http.MethodGet, "/search?q=%D8%A8&page=2", "", http.StatusTemporaryRedirect, "/ar/search?q=%D8%A8&page=2"},
		{"post keeps 307", http.MethodPost, "/contact", "en", http.StatusTemporaryRedirect, "/en/contact"},
		{"localized passes", http.MethodGet, "/en/about", "ar", http.StatusTeapot, ""},
		{"api passes", http.MethodGet, "/api/v1/documents", "", http.StatusTeapot, ""},
		{"pdf passes", http.MethodGet, "/pdfs/guide.pdf", "", http.StatusTeapot, ""},
	}

	counter := &redirectCounter{byLocale: map[string]int{}}
	handler := newRedirectHandler(counter)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.target, strings.NewReader("body"))
			if tt.header != "" {
				request.Header.Set("Accept-Language", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, tt.wantLoc, recorder.Header().Get("Location"))
		})
	}

	assert.Equal(t, 2, counter.byLocale["ar"])
	assert.Equal(t, 3, counter.byLocale["en"])
}

/*
TestRedirect_KeepsEscapedPath verifies percent-encoded segments survive the redirect.
*/
func TestRedirect_KeepsEscapedPath(t *testing.T) {
	handler := newRedirectHandler(nil)

	tests := []struct {
		target  string
		wantLoc string
	}{
		{"/what%3Fnext", "/ar/what%3Fnext"},
		{"/a%20b", "/ar/a%20b"},
		{"/100%25", "/ar/100%25"},
		{"/%D9%85%D9%82%D8%A7%D9%84", "/ar/%D9%85%D9%82%D8%A7%D9%84"},
		{"/what%3Fnext?q=1", "/ar/what%3Fnext?q=1"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.target, nil)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
			assert.Equal(t, tt.wantLoc, recorder.Header().Get("Location"))
		})
	}
}

/*
TestRedirect_CookieWins prefers an explicit visitor choice over the header.
*/
func TestRedirect_CookieWins(t *testing.T) {
	handler := newRedirectHandler(nil)

	request := httptest.NewRequest(http.MethodGet, "/about", nil)
	request.Header.Set("Accept-Language", "ar")
	request.AddCookie(&http.Cookie{Name: locale.PreferenceCookie, Value: "en"})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "/en/about", recorder.Header().Get("Location"))

	request = httptest.NewRequest(http.MethodGet, "/about", nil)
	request.AddCookie(&http.Cookie{Name: locale.PreferenceCookie, Value: "xx"})
	recorder = httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "/ar/about", recorder.Header().Get("Location"))
}

/*
TestRedirect_AlwaysSupportedLocale checks that every redirect target carries ar or en.
*/
func TestRedirect_AlwaysSupportedLocale(t *testing.T) {
	handler := newRedirectHandler(nil)
	headers := []string{"", "zh-CN", "en", "ar", "en;q=0", "x-klingon", "de, fr;q=0.5", "ar-MA;q=0.1"}
	paths := []string{"/", "/a", "/a/b/c", "/services"}

	for _, header := range headers {
		for _, path := range paths {
			request := httptest.NewRequest(http.MethodGet, path, nil)
			request.Header.Set("Accept-Language", header)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusTemporaryRedirect, recorder.Code)
			current, ok := locale.FromPath(recorder.Header().Get("Location"))
			assert.True(t, ok, "header %q path %q", header, path)
			assert.Contains(t, locale.Supported, current)
		}
	}
}
