// Package app provides application lifecycle management and events.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gallery/internal/catalog"
	"gallery/internal/image"
	"gallery/internal/logging"
	"gallery/internal/viewer"

	"go.uber.org/zap"
)

// Status texts shown in the status bar.
const (
	StatusLoading = "Loading items…"
	StatusEmpty   = "No items found."
)

// State holds the catalog, its status line and the open inspection session.
type State struct {
	mu sync.RWMutex

	loader *catalog.Loader
	images *image.Fetcher
	logger *zap.Logger
	opts   viewer.Options

	items   []catalog.Item
	status  string
	loading int
	session *viewer.Session

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventCatalogLoading EventType = iota
	EventCatalogLoaded
	EventCatalogFailed
	EventStatusChanged
	EventSessionOpened
	EventSessionClosed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates application state around a catalog loader and image
// fetcher. opts configure every inspection session opened from it.
func NewState(loader *catalog.Loader, images *image.Fetcher, opts viewer.Options, logger *zap.Logger) *State {
	logger = logging.OrNop(logger)
	return &State{
		loader:    loader,
		images:    images,
		logger:    logger,
		opts:      opts,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Loader returns the catalog loader.
func (s *State) Loader() *catalog.Loader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loader
}

// SetSource points later reloads at a different catalog.
func (s *State) SetSource(source string) {
	s.mu.Lock()
	s.loader = s.loader.WithSource(source)
	s.mu.Unlock()
	s.logger.Info("catalog source changed", zap.String("source", source))
}

// ResolveImage resolves an item image reference against the current
// catalog source.
func (s *State) ResolveImage(ref string) string {
	return s.Loader().ResolveImage(ref)
}

// Images returns the shared image fetcher.
func (s *State) Images() *image.Fetcher {
	return s.images
}

// Items returns a copy of the currently displayed items.
func (s *State) Items() []catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Status returns the status line.
func (s *State) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Loading reports whether any reload is in flight.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *State) setStatus(status string) {
	s.mu.Lock()
	changed := s.status != status
	s.status = status
	s.mu.Unlock()
	if changed {
		s.Emit(EventStatusChanged, status)
	}
}

// Reload fetches the catalog and replaces the displayed items. Every call is
// an independent fetch; concurrent reloads are neither merged nor cancelled
// and whichever finishes last determines the items and status. The open
// inspection session is never touched.
func (s *State) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	loader := s.Loader()
	s.setStatus(StatusLoading)
	s.Emit(EventCatalogLoading, loader.Source())

	items, err := loader.Load(ctx)

	s.mu.Lock()
	s.loading--
	if err != nil {
		s.items = nil
	} else {
		s.items = catalog.Available(items)
	}
	shown := len(s.items)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("catalog reload failed", zap.String("source", loader.Source()), zap.Error(err))
		s.setStatus(ErrorStatus(err))
		s.Emit(EventCatalogFailed, err)
		return err
	}

	// Reloads bust caches, images included.
	if s.images != nil {
		s.images.Reset()
	}
	if shown == 0 {
		s.setStatus(StatusEmpty)
	} else {
		s.setStatus("")
	}
	s.logger.Info("catalog loaded", zap.Int("total", len(items)), zap.Int("shown", shown))
	s.Emit(EventCatalogLoaded, shown)
	return nil
}

// ErrorStatus formats a load failure for the status bar. HTTP failures are
// reported by status code alone.
func ErrorStatus(err error) string {
	var se *catalog.StatusError
	if errors.As(err, &se) {
		err = se
	}
	return "Error: " + err.Error()
}

// OpenItem starts an inspection session for item, closing any previous one.
// The image size is supplied later through Session.SetImageSize once
// ItemImage has decoded it.
func (s *State) OpenItem(item catalog.Item, sink viewer.RenderSink) (*viewer.Session, error) {
	session, err := viewer.NewSession(item.ID, sink, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", item.ID, err)
	}

	s.mu.Lock()
	prev := s.session
	s.session = session
	s.mu.Unlock()

	if prev != nil {
		prev.Close()
		s.Emit(EventSessionClosed, prev.ItemID())
	}
	s.logger.Debug("session opened", zap.String("item", item.ID))
	s.Emit(EventSessionOpened, session)
	return session, nil
}

// ItemImage fetches the full-size image for item, resolving its reference
// against the catalog source.
func (s *State) ItemImage(ctx context.Context, item catalog.Item) (*image.Asset, error) {
	return s.images.Load(ctx, s.ResolveImage(item.Image))
}

// Session returns the open inspection session, or nil.
func (s *State) Session() *viewer.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// CloseSession disposes of the open inspection session, if any.
func (s *State) CloseSession() {
	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.mu.Unlock()

	if prev == nil {
		return
	}
	prev.Close()
	s.logger.Debug("session closed", zap.String("item", prev.ItemID()))
	s.Emit(EventSessionClosed, prev.ItemID())
}
