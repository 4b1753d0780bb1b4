package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gallery/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalogFile),
		[]byte(`[{"id":"a","name":"Harbour","price":10,"image":"img/a.png","available":true}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "a.png"), []byte("png-bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("secret"), 0o644))
	return dir
}

func get(t *testing.T, srv *httptest.Server, p string) (*http.Response, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + p)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServesCatalog(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{Dir: newCatalogDir(t)}, nil))
	defer srv.Close()

	resp, body := get(t, srv, "/products.json?v=123")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Contains(t, body, `"Harbour"`)
}

func TestServesImagesOnly(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{Dir: newCatalogDir(t)}, nil))
	defer srv.Close()

	resp, body := get(t, srv, "/img/a.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png-bytes", body)

	resp, _ = get(t, srv, "/notes.txt")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, srv, "/img/missing.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMissingCatalog(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{Dir: t.TempDir()}, nil))
	defer srv.Close()

	resp, _ := get(t, srv, "/products.json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{Dir: t.TempDir()}, nil))
	defer srv.Close()

	resp, body := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestLoaderAgainstServer(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{Dir: newCatalogDir(t), Delay: 5 * time.Millisecond}, nil))
	defer srv.Close()

	loader := catalog.NewLoader(srv.URL+"/products.json", srv.Client(), nil)
	items, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, srv.URL+"/img/a.png", loader.ResolveImage(items[0].Image))
}
