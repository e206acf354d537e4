// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var embeddedMessages embed.FS

// Messages returns the embedded message catalogs rooted at the directory
// holding "<locale>.yaml" files.
func Messages() fs.FS {
	sub, err := fs.Sub(embeddedMessages, "messages")
	if err != nil {
		panic("locale: embedded messages missing: " + err.Error())
	}
	return sub
}

// Catalog maps dotted message keys ("nav.home") to translated text.
type Catalog map[string]string

// Keys returns the catalog keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Loader produces the catalog for one locale.
type Loader interface {
	Load(ctx context.Context, l Locale) (Catalog, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, l Locale) (Catalog, error)

// Load implements [Loader].
func (f LoaderFunc) Load(ctx context.Context, l Locale) (Catalog, error) { return f(ctx, l) }

// FileLoader reads "<locale>.yaml" from fsys and flattens nested keys.
func FileLoader(fsys fs.FS) Loader {
	return LoaderFunc(func(_ context.Context, l Locale) (Catalog, error) {
		raw, err := fs.ReadFile(fsys, string(l)+".yaml")
		if err != nil {
			return nil, fmt.Errorf("locale: read %s catalog: %w", l, err)
		}

		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("locale: parse %s catalog: %w", l, err)
		}

		catalog := Catalog{}
		flatten("", tree, catalog)
		return catalog, nil
	})
}

func flatten(prefix string, node any, into Catalog) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	switch value := node.(type) {
	case map[string]any:
		for key, child := range value {
			flatten(join(key), child, into)
		}
	case []any:
		for index, child := range value {
			flatten(join(strconv.Itoa(index)), child, into)
		}
	case nil:
		into[prefix] = ""
	default:
		into[prefix] = fmt.Sprint(value)
	}
}

// CachedLoader wraps a slow loader so every locale is loaded at most once.
// Concurrent first requests for the same locale share one underlying call.
// Failed loads are not cached.
type CachedLoader struct {
	source Loader
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[Locale]Catalog
}

// NewCachedLoader wraps source.
func NewCachedLoader(source Loader) *CachedLoader {
	return &CachedLoader{source: source, cache: make(map[Locale]Catalog)}
}

// Load implements [Loader].
func (c *CachedLoader) Load(ctx context.Context, l Locale) (Catalog, error) {
	c.mu.RLock()
	catalog, ok := c.cache[l]
	c.mu.RUnlock()
	if ok {
		return catalog, nil
	}

	result, err, _ := c.group.Do(string(l), func() (any, error) {
		loaded, err := c.source.Load(ctx, l)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[l] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(Catalog), nil
}

// Dictionaries holds every supported catalog in memory for synchronous lookups.
type Dictionaries struct {
	fallback Locale
	catalogs map[Locale]Catalog
}

// LoadDictionaries eagerly loads the catalog of every supported locale.
func LoadDictionaries(ctx context.Context, loader Loader, fallback Locale) (*Dictionaries, error) {
	if _, ok := Parse(string(fallback)); !ok {
		fallback = Default
	}

	catalogs := make(map[Locale]Catalog, len(Supported))
	for _, candidate := range Supported {
		catalog, err := loader.Load(ctx, candidate)
		if err != nil {
			return nil, err
		}
		catalogs[candidate] = catalog
	}

	return &Dictionaries{fallback: fallback, catalogs: catalogs}, nil
}

// Get returns the catalog for l, or the fallback catalog for unsupported locales.
func (d *Dictionaries) Get(l Locale) Catalog {
	if catalog, ok := d.catalogs[l]; ok {
		return catalog
	}
	return d.catalogs[d.fallback]
}

// Lookup finds key in l's catalog, then in the fallback catalog.
func (d *Dictionaries) Lookup(l Locale, key string) (string, bool) {
	if text, ok := d.Get(l)[key]; ok {
		return text, true
	}
	text, ok := d.catalogs[d.fallback][key]
	return text, ok
}

// Translate is [Dictionaries.Lookup] that returns the key itself when nothing matches.
func (d *Dictionaries) Translate(l Locale, key string) string {
	if text, ok := d.Lookup(l, key); ok {
		return text
	}
	return key
}

// Load implements [Loader] over the in-memory catalogs.
func (d *Dictionaries) Load(_ context.Context, l Locale) (Catalog, error) {
	catalog, ok := d.catalogs[l]
	if !ok {
		return nil, fmt.Errorf("locale: no catalog for %q", l)
	}
	return catalog, nil
}
