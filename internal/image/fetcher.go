package image

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"gallery/internal/logging"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxImageBytes = 64 << 20

// Fetcher loads product images from URLs or files and caches decoded assets
// and thumbnails for the lifetime of one catalog.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger

	mu     sync.Mutex
	assets map[string]*Asset
	thumbs map[thumbKey]image.Image
}

type thumbKey struct {
	ref  string
	size int
}

// NewFetcher creates a fetcher. A nil client uses a 30 second timeout.
func NewFetcher(client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger = logging.OrNop(logger)
	return &Fetcher{
		client: client,
		logger: logger,
		assets: make(map[string]*Asset),
		thumbs: make(map[thumbKey]image.Image),
	}
}

// Load returns the decoded image for ref, fetching it on first use.
func (f *Fetcher) Load(ctx context.Context, ref string) (*Asset, error) {
	f.mu.Lock()
	if a, ok := f.assets[ref]; ok {
		f.mu.Unlock()
		return a, nil
	}
	f.mu.Unlock()

	rc, err := f.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	a, err := Decode(ref, io.LimitReader(rc, maxImageBytes))
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.assets[ref] = a
	f.mu.Unlock()

	f.logger.Debug("image loaded",
		zap.String("ref", ref),
		zap.String("format", a.Format),
		zap.Int("width", a.Width()),
		zap.Int("height", a.Height()))
	return a, nil
}

// Thumbnail returns ref scaled to fit within size x size pixels.
func (f *Fetcher) Thumbnail(ctx context.Context, ref string, size int) (image.Image, error) {
	key := thumbKey{ref: ref, size: size}
	f.mu.Lock()
	if t, ok := f.thumbs[key]; ok {
		f.mu.Unlock()
		return t, nil
	}
	f.mu.Unlock()

	a, err := f.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	var thumb image.Image = a.Image
	if a.Width() > size || a.Height() > size {
		thumb = imaging.Fit(a.Image, size, size, imaging.Lanczos)
	}

	f.mu.Lock()
	f.thumbs[key] = thumb
	f.mu.Unlock()
	return thumb, nil
}

// Prefetch warms the thumbnail cache for refs using at most workers
// concurrent loads. Individual failures are logged and skipped; only
// context cancellation is returned.
func (f *Fetcher) Prefetch(ctx context.Context, refs []string, size, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, ref := range refs {
		if ref == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := f.Thumbnail(gctx, ref, size); err != nil {
				f.logger.Warn("thumbnail prefetch failed", zap.String("ref", ref), zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

// Reset drops all cached images, e.g. after a catalog reload.
func (f *Fetcher) Reset() {
	f.mu.Lock()
	f.assets = make(map[string]*Asset)
	f.thumbs = make(map[thumbKey]image.Image)
	f.mu.Unlock()
}

// Cached reports whether ref has been decoded already.
func (f *Fetcher) Cached(ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.assets[ref]
	return ok
}

func (f *Fetcher) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	u, err := url.Parse(ref)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build image request: %w", err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch image %s: HTTP %d", ref, resp.StatusCode)
		}
		return resp.Body, nil
	}

	file, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return file, nil
}
