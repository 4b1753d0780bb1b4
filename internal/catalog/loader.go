package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gallery/internal/logging"

	"go.uber.org/zap"
)

const maxCatalogBytes = 16 << 20

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Loader fetches the catalog document from a URL or a local file. It does
// not retry; each Load is independent.
type Loader struct {
	source string
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewLoader creates a loader for source. A nil client uses a client with a
// 30 second timeout; a nil logger discards output.
func NewLoader(source string, client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger = logging.OrNop(logger)
	return &Loader{
		source: strings.TrimSpace(source),
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// WithSource returns a loader for another source sharing l's client and
// logger.
func (l *Loader) WithSource(source string) *Loader {
	c := *l
	c.source = strings.TrimSpace(source)
	return &c
}

// Source returns the configured catalog location.
func (l *Loader) Source() string {
	return l.source
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Load fetches and decodes the full catalog, including unavailable items.
func (l *Loader) Load(ctx context.Context) ([]Item, error) {
	if l.source == "" {
		return nil, fmt.Errorf("no catalog source configured")
	}

	start := l.now()
	var (
		data []byte
		err  error
	)
	if IsRemote(l.source) {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.source)
		if err != nil {
			err = fmt.Errorf("failed to read catalog: %w", err)
		}
	}
	if err != nil {
		l.logger.Warn("catalog load failed", zap.String("source", l.source), zap.Error(err))
		return nil, err
	}

	items, err := Decode(data)
	if err != nil {
		l.logger.Warn("catalog decode failed", zap.String("source", l.source), zap.Error(err))
		return nil, err
	}

	l.logger.Info("catalog loaded",
		zap.String("source", l.source),
		zap.Int("items", len(items)),
		zap.Duration("elapsed", l.now().Sub(start)))
	return items, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(l.source)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url: %w", err)
	}
	// Bust intermediate caches on every reload.
	q := u.Query()
	q.Set("v", strconv.FormatInt(l.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: l.source}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return data, nil
}

// ResolveImage resolves an item's image reference against the catalog
// source: absolute URLs and paths pass through, relative ones are joined to
// the source's directory.
func (l *Loader) ResolveImage(ref string) string {
	return ResolveRef(l.source, ref)
}

// ResolveRef resolves ref relative to the catalog source.
func ResolveRef(source, ref string) string {
	if ref == "" || IsRemote(ref) {
		return ref
	}
	if IsRemote(source) {
		base, err := url.Parse(source)
		if err != nil {
			return ref
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(rel).String()
	}
	if source == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(source), filepath.FromSlash(ref))
}
