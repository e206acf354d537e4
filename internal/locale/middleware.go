// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/internal/platform/constants"
	"github.com/taibuivan/bayan/internal/platform/ctxutil"
	"github.com/taibuivan/bayan/internal/platform/respond"
)

// PreferenceCookie holds a locale the visitor picked explicitly. It wins over
// Accept-Language when valid.
const PreferenceCookie = "bayan_locale"

// RedirectObserver is notified of every locale redirect.
type RedirectObserver interface {
	ObserveLocaleRedirect(locale string)
}

// Redirect sends unlocalized paths to their locale-prefixed equivalent with a
// 307, so the method and body are replayed. Other requests pass through untouched.
func Redirect(resolver *Resolver, observer RedirectObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !IsMissingLocale(request.URL.Path) {
				next.ServeHTTP(writer, request)
				return
			}

			chosen := resolver.Preferred(request.Header.Get(constants.HeaderAcceptLanguage))
			if cookie, err := request.Cookie(PreferenceCookie); err == nil {
				if picked, ok := Parse(cookie.Value); ok {
					chosen = picked
				}
			}

			// The escaped form keeps encoded separators such as %3F intact.
			target := Localize(chosen, request.URL.EscapedPath())
			if request.URL.RawQuery != "" {
				target += "?" + request.URL.RawQuery
			}

			if observer != nil {
				observer.ObserveLocaleRedirect(string(chosen))
			}

			writer.Header().Add("Vary", constants.HeaderAcceptLanguage)
			http.Redirect(writer, request, target, http.StatusTemporaryRedirect)
		})
	}
}

// Scope reads the {locale} URL parameter of a localized route, rejects
// unsupported values with 404 and stores the locale in the request context.
func Scope() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current, ok := Parse(chi.URLParam(request, "locale"))
			if !ok {
				respond.Error(writer, request, apperr.NotFound("Page"))
				return
			}

			writer.Header().Set(constants.HeaderContentLang, string(current))
			next.ServeHTTP(writer, request.WithContext(WithLocale(request.Context(), current)))
		})
	}
}

// WithLocale stores l in ctx.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return ctxutil.WithLocale(ctx, string(l))
}

// FromContext returns the request locale, or [Default] when none was set.
func FromContext(ctx context.Context) Locale {
	if current, ok := Parse(ctxutil.GetLocale(ctx)); ok {
		return current
	}
	return Default
}
