// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bayan/internal/locale"
)

/*
TestFileLoader flattens nested YAML into dotted keys.
*/
func TestFileLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("nav:\n  home: Home\n  links:\n    - First\n    - Second\ncount: 3\n")},
	}

	catalog, err := locale.FileLoader(fsys).Load(context.Background(), locale.English)
	require.NoError(t, err)

	assert.Equal(t, "Home", catalog["nav.home"])
	assert.Equal(t, "Second", catalog["nav.links.1"])
	assert.Equal(t, "3", catalog["count"])
	assert.Equal(t, []string{"count", "nav.home", "nav.links.0", "nav.links.1"}, catalog.Keys())

	_, err = locale.FileLoader(fsys).Load(context.Background(), locale.Arabic)
	assert.Error(t, err)
}

/*
TestEmbeddedCatalogsShareKeys keeps both shipped catalogs in step.
*/
func TestEmbeddedCatalogsShareKeys(t *testing.T) {
	loader := locale.FileLoader(locale.Messages())

	arabic, err := loader.Load(context.Background(), locale.Arabic)
	require.NoError(t, err)
	english, err := loader.Load(context.Background(), locale.English)
	require.NoError(t, err)

	assert.Equal(t, arabic.Keys(), english.Keys())
	assert.Equal(t, "بيان", arabic["site.name"])
	assert.Equal(t, "Bayan", english["site.name"])
}

/*
TestCachedLoader loads each locale once, even under concurrent first access.
*/
func TestCachedLoader(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})

	source := locale.LoaderFunc(func(_ context.Context, l locale.Locale) (locale.Catalog, error) {
		calls.Add(1)
		<-release
		return locale.Catalog{"site.name": string(l)}, nil
	})
	cached := locale.NewCachedLoader(source)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			catalog, err := cached.Load(context.Background(), locale.English)
			assert.NoError(t, err)
			assert.Equal(t, "en", catalog["site.name"])
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	_, err := cached.Load(context.Background(), locale.English)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

/*
TestCachedLoader_ErrorsNotCached retries after a failure.
*/
func TestCachedLoader_ErrorsNotCached(t *testing.T) {
	var calls atomic.Int32
	source := locale.LoaderFunc(func(_ context.Context, _ locale.Locale) (locale.Catalog, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("temporarily unavailable")
		}
		return locale.Catalog{"k": "v"}, nil
	})
	cached := locale.NewCachedLoader(source)

	_, err := cached.Load(context.Background(), locale.Arabic)
	assert.Error(t, err)

	catalog, err := cached.Load(context.Background(), locale.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "v", catalog["k"])
}

/*
TestDictionaries_Translate falls back to the default catalog then to the key.
*/
func TestDictionaries_Translate(t *testing.T) {
	source := locale.LoaderFunc(func(_ context.Context, l locale.Locale) (locale.Catalog, error) {
		if l == locale.Arabic {
			return locale.Catalog{"nav.home": "الرئيسية", "only.ar": "عربي"}, nil
		}
		return locale.Catalog{"nav.home": "Home"}, nil
	})

	dictionaries, err := locale.LoadDictionaries(context.Background(), source, locale.Arabic)
	require.NoError(t, err)

	assert.Equal(t, "Home", dictionaries.Translate(locale.English, "nav.home"))
	assert.Equal(t, "عربي", dictionaries.Translate(locale.English, "only.ar"))
	assert.Equal(t, "missing.key", dictionaries.Translate(locale.English, "missing.key"))
	assert.Equal(t, "الرئيسية", dictionaries.Get("fr")["nav.home"])

	_, err = dictionaries.Load(context.Background(), "fr")
	assert.Error(t, err)
}
