// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package locale owns the site's two languages and the routing rules that keep
every served page under an explicit locale prefix.

Routing:

  - IsMissingLocale: decides whether a request path still needs a prefix.
  - Resolver: negotiates the visitor's language from a weighted preference list.
  - Redirect: 307s unlocalized paths to /{locale}{path}.

Dictionaries (UI message catalogs) live in dictionary.go.
*/
package locale

import (
	"path"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported site language code.
type Locale string

const (
	Arabic  Locale = "ar"
	English Locale = "en"

	// Default is used whenever no preference can be negotiated.
	Default = Arabic
)

// Supported lists every locale the site serves, default first.
var Supported = []Locale{Arabic, English}

// Text direction values for the HTML dir attribute.
const (
	DirRTL = "rtl"
	DirLTR = "ltr"
)

// Parse returns the Locale for code, reporting whether it is supported.
// Matching is exact and case-sensitive, as URL segments are.
func Parse(code string) (Locale, bool) {
	for _, candidate := range Supported {
		if string(candidate) == code {
			return candidate, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (l Locale) String() string { return string(l) }

// Direction returns the text direction for the locale.
func (l Locale) Direction() string {
	if l == Arabic {
		return DirRTL
	}
	return DirLTR
}

// # Path Rules

// excludedPrefixes are never localized: API routes, framework and static assets,
// documents, probes and well-known root files.
var excludedPrefixes = []string{
	"/api",
	"/_next",
	"/static",
	"/assets",
	"/images",
	"/pdfs",
	"/health",
	"/ready",
	"/metrics",
	"/favicon.ico",
	"/robots.txt",
	"/sitemap.xml",
}

// IsMissingLocale reports whether p should be redirected to a locale-prefixed path.
//
// It returns false when the first segment is a supported locale, when p falls
// under an excluded prefix, or when the last segment names a file (has an extension).
func IsMissingLocale(p string) bool {
	if p == "" {
		p = "/"
	}

	if _, ok := FromPath(p); ok {
		return false
	}

	for _, prefix := range excludedPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return false
		}
	}

	if path.Ext(path.Base(p)) != "" {
		return false
	}

	return true
}

// FromPath extracts the locale prefix of an already localized path.
func FromPath(p string) (Locale, bool) {
	segment := strings.TrimPrefix(p, "/")
	segment, _, _ = strings.Cut(segment, "/")
	return Parse(segment)
}

// Localize prefixes p with the locale. The root path maps to "/{locale}"
// without a trailing slash.
func Localize(l Locale, p string) string {
	if p == "" || p == "/" {
		return "/" + string(l)
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "/" + string(l) + p
}

// # Negotiation

// Resolver negotiates a supported locale from Accept-Language values.
type Resolver struct {
	fallback Locale
	tags     []language.Tag
	locales  []Locale
	matcher  language.Matcher
}

// NewResolver builds a resolver that falls back to fallback. Unsupported
// fallbacks are replaced with [Default].
func NewResolver(fallback Locale) *Resolver {
	if _, ok := Parse(string(fallback)); !ok {
		fallback = Default
	}

	// The matcher treats its first tag as the no-match default.
	locales := []Locale{fallback}
	for _, candidate := range Supported {
		if candidate != fallback {
			locales = append(locales, candidate)
		}
	}

	tags := make([]language.Tag, len(locales))
	for i, candidate := range locales {
		tags[i] = language.Make(string(candidate))
	}

	return &Resolver{
		fallback: fallback,
		tags:     tags,
		locales:  locales,
		matcher:  language.NewMatcher(tags),
	}
}

// Fallback returns the locale used when negotiation fails.
func (r *Resolver) Fallback() Locale { return r.fallback }

// Preferred parses a weighted language list and returns the best supported
// match. Absent, malformed or unmatched values yield the fallback.
func (r *Resolver) Preferred(header string) Locale {
	header = strings.TrimSpace(header)
	if header == "" {
		return r.fallback
	}

	tags, _, err := language.ParseAcceptLanguage(withoutWildcards(header))
	if err != nil || len(tags) == 0 {
		return r.fallback
	}

	_, index, confidence := r.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(r.locales) {
		return r.fallback
	}

	return r.locales[index]
}

// withoutWildcards drops "*" entries, which carry no language to match.
func withoutWildcards(header string) string {
	entries := strings.Split(header, ",")
	kept := entries[:0]
	for _, entry := range entries {
		tag, _, _ := strings.Cut(entry, ";")
		if strings.TrimSpace(tag) == "*" {
			continue
		}
		kept = append(kept, entry)
	}
	return strings.Join(kept, ",")
}

var defaultResolver = NewResolver(Default)

// ResolvePreferred negotiates against the supported set with [Default] as fallback.
func ResolvePreferred(header string) Locale {
	return defaultResolver.Preferred(header)
}
