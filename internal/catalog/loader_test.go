package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderRemote(t *testing.T) {
	var gotQuery, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("v")
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleCatalog))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/products.json", srv.Client(), nil)
	l.now = func() time.Time { return time.UnixMilli(1700000000123) }

	items, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "1700000000123", gotQuery)
	assert.Equal(t, "no-store", gotCache)
}

func TestLoaderRemoteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLoader(srv.URL, srv.Client(), nil).Load(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "HTTP 404", err.Error())
}

func TestLoaderRemoteBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := NewLoader(srv.URL, srv.Client(), nil).Load(context.Background())
	assert.ErrorContains(t, err, "failed to decode catalog")
}

func TestLoaderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	items, err := NewLoader(path, nil, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.json"), nil, nil).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderNoSource(t *testing.T) {
	_, err := NewLoader("  ", nil, nil).Load(context.Background())
	assert.Error(t, err)
}

func TestResolveRef(t *testing.T) {
	tests := []struct {
		source, ref, want string
	}{
		{"https://cdn.example/shop/products.json", "img/a.jpg", "https://cdn.example/shop/img/a.jpg"},
		{"https://cdn.example/shop/products.json", "/abs/a.jpg", "https://cdn.example/abs/a.jpg"},
		{"https://cdn.example/shop/products.json", "https://other.example/b.png", "https://other.example/b.png"},
		{"/srv/gallery/products.json", "img/a.jpg", filepath.Join("/srv/gallery", "img", "a.jpg")},
		{"/srv/gallery/products.json", "/elsewhere/a.jpg", "/elsewhere/a.jpg"},
		{"", "img/a.jpg", "img/a.jpg"},
		{"/srv/gallery/products.json", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveRef(tt.source, tt.ref), "source=%q ref=%q", tt.source, tt.ref)
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://a/b"))
	assert.True(t, IsRemote("https://a/b"))
	assert.False(t, IsRemote("products.json"))
	assert.False(t, IsRemote("/tmp/products.json"))
	assert.False(t, IsRemote("file:///tmp/products.json"))
}

func TestWithSource(t *testing.T) {
	l := NewLoader("a/products.json", nil, nil)
	m := l.WithSource(" https://shop.example/products.json ")
	assert.Equal(t, "a/products.json", l.Source())
	assert.Equal(t, "https://shop.example/products.json", m.Source())
	assert.Equal(t, "https://shop.example/img/x.jpg", m.ResolveImage("img/x.jpg"))
}
